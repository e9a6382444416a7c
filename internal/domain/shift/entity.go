package shift

import (
	"fmt"
	"time"
)

type Type string

const (
	TypeMorning   Type = "morning"
	TypeAfternoon Type = "afternoon"
	TypeEvening   Type = "evening"
	TypeNight     Type = "night"
	TypeFullDay   Type = "full_day"
)

var TypeValues = []string{
	string(TypeMorning),
	string(TypeAfternoon),
	string(TypeEvening),
	string(TypeNight),
	string(TypeFullDay),
}

func (t Type) IsValid() bool {
	switch t {
	case TypeMorning, TypeAfternoon, TypeEvening, TypeNight, TypeFullDay:
		return true
	}
	return false
}

// WallClock is a time of day without a date.
type WallClock struct {
	Hour   int
	Minute int
}

// ParseWallClock parses "15:04".
func ParseWallClock(s string) (WallClock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return WallClock{}, fmt.Errorf("invalid wall clock %q: %w", s, err)
	}
	return WallClock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// On returns the instant of w on the calendar day of date, in loc.
func (w WallClock) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), w.Hour, w.Minute, 0, 0, loc)
}

type Definition struct {
	Type            Type
	Start           WallClock
	End             WallClock
	CrossesMidnight bool
}

// DateOf truncates t to its calendar day in t's own location. The result is
// 00:00 UTC so dates compare and store the same everywhere.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses "2006-01-02" into a calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func FormatDate(d time.Time) string {
	return d.Format("2006-01-02")
}
