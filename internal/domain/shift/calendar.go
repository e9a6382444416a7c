package shift

import "time"

// DefaultDefinitions is the compiled-in shift table.
var DefaultDefinitions = []Definition{
	{Type: TypeMorning, Start: WallClock{6, 0}, End: WallClock{12, 0}},
	{Type: TypeAfternoon, Start: WallClock{12, 0}, End: WallClock{18, 0}},
	{Type: TypeEvening, Start: WallClock{18, 0}, End: WallClock{22, 0}},
	{Type: TypeNight, Start: WallClock{22, 0}, End: WallClock{6, 0}, CrossesMidnight: true},
	{Type: TypeFullDay, Start: WallClock{8, 0}, End: WallClock{20, 0}},
}

// Calendar resolves shift types to nominal windows in the business location.
type Calendar struct {
	loc   *time.Location
	defs  map[Type]Definition
	order []Type
}

// NewCalendar builds a calendar. With no definitions the default table is used.
func NewCalendar(loc *time.Location, defs ...Definition) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if len(defs) == 0 {
		defs = DefaultDefinitions
	}

	c := &Calendar{loc: loc, defs: make(map[Type]Definition, len(defs))}
	for _, d := range defs {
		if _, exists := c.defs[d.Type]; !exists {
			c.order = append(c.order, d.Type)
		}
		c.defs[d.Type] = d
	}
	return c
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

func (c *Calendar) Definition(t Type) (Definition, bool) {
	d, ok := c.defs[t]
	return d, ok
}

// Definitions returns every definition in registration order.
func (c *Calendar) Definitions() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.defs[t])
	}
	return out
}

// EndDate is the calendar day the shift's nominal end falls on.
func (d Definition) EndDate(date time.Time) time.Time {
	if d.CrossesMidnight && d.End.Hour < 12 {
		return date.AddDate(0, 0, 1)
	}
	return date
}

// Window returns the nominal start and end instants of shift t on date.
func (c *Calendar) Window(t Type, date time.Time) (start, end time.Time, err error) {
	d, ok := c.defs[t]
	if !ok {
		return time.Time{}, time.Time{}, ErrUnknownShift
	}
	start = d.Start.On(date, c.loc)
	end = d.End.On(d.EndDate(date), c.loc)
	return start, end, nil
}

// Today is the current calendar day of now in the business location.
func (c *Calendar) Today(now time.Time) time.Time {
	return DateOf(now.In(c.loc))
}
