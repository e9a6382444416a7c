package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

func at(date string, hhmm string) *time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, wib)
	if err != nil {
		panic(err)
	}
	return &t
}

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestWorkedHours(t *testing.T) {
	cal := NewCalendar(wib)

	tests := []struct {
		name     string
		shift    Type
		in, out  *time.Time
		date     time.Time
		expected float64
	}{
		{"inside window", TypeMorning, at("2024-03-04", "07:00"), at("2024-03-04", "11:00"), day("2024-03-04"), 4},
		{"outside window clips to nominal", TypeMorning, at("2024-03-04", "05:00"), at("2024-03-04", "13:00"), day("2024-03-04"), 6},
		{"early check-out shrinks credit", TypeAfternoon, at("2024-03-04", "12:10"), at("2024-03-04", "17:35"), day("2024-03-04"), 5.42},
		{"night shift across midnight", TypeNight, at("2024-01-01", "22:30"), at("2024-01-02", "05:30"), day("2024-01-01"), 7},
		{"night shift clipped both sides", TypeNight, at("2024-01-01", "21:00"), at("2024-01-02", "07:00"), day("2024-01-01"), 8},
		{"night shift left before midnight", TypeNight, at("2024-01-01", "22:00"), at("2024-01-01", "23:30"), day("2024-01-01"), 1.5},
		{"check-out before check-in floors at zero", TypeMorning, at("2024-03-04", "10:00"), at("2024-03-04", "09:00"), day("2024-03-04"), 0},
		{"missing check-in credits nominal", TypeMorning, nil, at("2024-03-04", "09:00"), day("2024-03-04"), 6},
		{"missing check-out credits nominal night", TypeNight, at("2024-01-01", "22:00"), nil, day("2024-01-01"), 8},
		{"missing date credits nominal", TypeFullDay, at("2024-03-04", "08:00"), at("2024-03-04", "09:00"), time.Time{}, 12},
		{"unknown shift", Type("brunch"), at("2024-03-04", "08:00"), at("2024-03-04", "09:00"), day("2024-03-04"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.WorkedHours(tt.shift, tt.in, tt.out, tt.date)
			assert.InDelta(t, tt.expected, got, 0.0001)
		})
	}
}

func TestWorkedHours_PunchesInOtherLocation(t *testing.T) {
	cal := NewCalendar(wib)

	in := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)  // 22:30 WIB
	out := time.Date(2024, 1, 1, 22, 30, 0, 0, time.UTC) // 05:30 WIB next day

	assert.Equal(t, 7.0, cal.WorkedHours(TypeNight, &in, &out, day("2024-01-01")))
}

func TestWorkedHours_Idempotent(t *testing.T) {
	cal := NewCalendar(wib)
	in, out := at("2024-01-01", "22:30"), at("2024-01-02", "05:30")

	first := cal.WorkedHours(TypeNight, in, out, day("2024-01-01"))
	second := cal.WorkedHours(TypeNight, in, out, day("2024-01-01"))

	assert.Equal(t, first, second)
	assert.Equal(t, "2024-01-01 22:30", in.Format("2006-01-02 15:04"))
}

func TestWorkedHours_AnyShiftMayCrossMidnight(t *testing.T) {
	cal := NewCalendar(wib, Definition{
		Type:            TypeEvening,
		Start:           WallClock{18, 0},
		End:             WallClock{2, 0},
		CrossesMidnight: true,
	})

	got := cal.WorkedHours(TypeEvening, at("2024-05-10", "18:00"), at("2024-05-11", "01:30"), day("2024-05-10"))
	assert.Equal(t, 7.5, got)
	assert.Equal(t, 8.0, cal.NominalHours(TypeEvening))
}

func TestCalendar_Window(t *testing.T) {
	cal := NewCalendar(wib)

	start, end, err := cal.Window(TypeNight, day("2024-01-01"))
	require.NoError(t, err)
	assert.WithinDuration(t, *at("2024-01-01", "22:00"), start, 0)
	assert.WithinDuration(t, *at("2024-01-02", "06:00"), end, 0)

	start, end, err = cal.Window(TypeMorning, day("2024-01-01"))
	require.NoError(t, err)
	assert.WithinDuration(t, *at("2024-01-01", "06:00"), start, 0)
	assert.WithinDuration(t, *at("2024-01-01", "12:00"), end, 0)

	_, _, err = cal.Window(Type("brunch"), day("2024-01-01"))
	assert.ErrorIs(t, err, ErrUnknownShift)
}

func TestCalendar_DefaultTable(t *testing.T) {
	cal := NewCalendar(nil)

	defs := cal.Definitions()
	require.Len(t, defs, 5)
	for _, d := range defs {
		assert.True(t, d.Type.IsValid(), d.Type)
		assert.Equal(t, d.Type == TypeNight, d.CrossesMidnight, d.Type)
	}
	assert.Equal(t, time.UTC, cal.Location())
}

func TestCalendar_Today(t *testing.T) {
	cal := NewCalendar(wib)

	// 20:00 UTC on the 1st is already the 2nd in WIB.
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, day("2024-01-02"), cal.Today(now))
}

func TestParseWallClock(t *testing.T) {
	w, err := ParseWallClock("22:30")
	require.NoError(t, err)
	assert.Equal(t, WallClock{22, 30}, w)
	assert.Equal(t, "22:30", w.String())

	_, err = ParseWallClock("25:00")
	assert.Error(t, err)
}

func TestTimingError(t *testing.T) {
	sentinel := ErrUnknownShift
	err := NewTimingError(sentinel, "minutes_early", 75)

	assert.ErrorIs(t, err, sentinel)
	var te *TimingError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 75, te.Minutes)
	assert.Equal(t, "unknown shift (minutes_early=75)", err.Error())
}
