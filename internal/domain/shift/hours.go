package shift

import (
	"math"
	"time"
)

// WorkedHours returns the hours creditable to date for shift t, clipped to the
// shift's nominal window. Punches are read as wall-clock times in the calendar's
// location. A missing punch or date credits the full nominal duration; an unknown
// shift credits nothing.
func (c *Calendar) WorkedHours(t Type, timeIn, timeOut *time.Time, date time.Time) float64 {
	d, ok := c.defs[t]
	if !ok {
		return 0
	}

	nominalStart := d.Start.On(date, c.loc)
	endDate := d.EndDate(date)
	nominalEnd := d.End.On(endDate, c.loc)

	if timeIn == nil || timeOut == nil || date.IsZero() {
		return roundHours(nominalEnd.Sub(nominalStart))
	}

	in := timeIn.In(c.loc)
	out := timeOut.In(c.loc)

	actualIn := WallClock{in.Hour(), in.Minute()}.On(date, c.loc)

	outDate := date
	if d.CrossesMidnight && out.Hour() < 12 {
		outDate = endDate
	}
	actualOut := WallClock{out.Hour(), out.Minute()}.On(outDate, c.loc)

	effectiveStart := nominalStart
	if actualIn.After(effectiveStart) {
		effectiveStart = actualIn
	}
	effectiveEnd := nominalEnd
	if actualOut.Before(effectiveEnd) {
		effectiveEnd = actualOut
	}

	return roundHours(effectiveEnd.Sub(effectiveStart))
}

// NominalHours is the full length of shift t.
func (c *Calendar) NominalHours(t Type) float64 {
	return c.WorkedHours(t, nil, nil, time.Time{})
}

func roundHours(d time.Duration) float64 {
	minutes := math.Floor(d.Minutes())
	hours := minutes / 60
	if hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}
