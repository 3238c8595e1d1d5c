// Package calendar implements the pure working-hour arithmetic described by
// the scheduling engine's calendar component: a bijection between wall-clock
// moments and elapsed working-hour offsets, under a configurable working-day
// policy with per-date capacity overrides.
//
// A Calendar value is immutable and referentially transparent: the same
// inputs always produce the same outputs, with no hidden clock reads.
package calendar

import (
	"time"

	"github.com/dagr-project/dagr/internal/dagrerr"
)

// maxHorizonDays bounds the search for a working day with positive
// capacity. A request that would need to search further returns
// dagrerr.UnschedulableHorizon rather than loop forever.
const maxHorizonDays = 10000

// TimeOfDay is an hour/minute pair denoting when the working day begins.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Config is the Project Configuration's calendar-relevant fields.
type Config struct {
	StartDatetime time.Time
	HoursPerDay   float64
	DayStartTime  TimeOfDay
	SkipWeekends  bool

	// CapacityOverrides maps a date (formatted "2006-01-02") to the
	// working-hour capacity for that date. An override fully replaces
	// both the default capacity and the weekend-skip decision.
	CapacityOverrides map[string]float64
}

// Calendar wraps a Config with the pure query/arithmetic operations.
type Calendar struct {
	cfg Config
}

// New returns a Calendar for the given configuration.
func New(cfg Config) *Calendar {
	if cfg.CapacityOverrides == nil {
		cfg.CapacityOverrides = map[string]float64{}
	}
	return &Calendar{cfg: cfg}
}

// Config returns the underlying configuration.
func (c *Calendar) Config() Config { return c.cfg }

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func hoursDur(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// Capacity returns cap(d): the working-hour capacity available on the
// calendar date containing t.
func (c *Calendar) Capacity(t time.Time) float64 {
	if v, ok := c.cfg.CapacityOverrides[dateKey(t)]; ok {
		return v
	}
	if c.cfg.SkipWeekends {
		switch t.Weekday() {
		case time.Saturday, time.Sunday:
			return 0
		}
	}
	return c.cfg.HoursPerDay
}

// DayStart returns the instant the working day begins on the calendar date
// containing t, regardless of that date's capacity.
func (c *Calendar) DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, c.cfg.DayStartTime.Hour, c.cfg.DayStartTime.Minute, 0, 0, t.Location())
}

// DayEnd returns the instant the working day's capacity is exhausted on the
// calendar date containing t (DayStart + Capacity hours). If the date has
// zero capacity, DayEnd equals DayStart.
func (c *Calendar) DayEnd(t time.Time) time.Time {
	return c.DayStart(t).Add(hoursDur(c.Capacity(t)))
}

// AddWorkingHours advances t by h hours of working capacity, skipping
// zero-capacity dates entirely and crossing day boundaries as needed. If
// h is zero, the result is t shifted forward to the next instant with
// positive remaining capacity.
func (c *Calendar) AddWorkingHours(t time.Time, h float64) (time.Time, error) {
	if h < 0 {
		return time.Time{}, dagrerr.InvalidField("hours", "must be non-negative")
	}

	remaining := h
	d := dateOnly(t)
	cur := t

	for i := 0; i < maxHorizonDays; i++ {
		capToday := c.Capacity(d)
		if capToday <= 0 {
			d = d.AddDate(0, 0, 1)
			cur = c.DayStart(d)
			continue
		}

		dayStart := c.DayStart(d)
		dayEnd := dayStart.Add(hoursDur(capToday))

		effective := cur
		if effective.Before(dayStart) {
			effective = dayStart
		}
		if !effective.Before(dayEnd) {
			// Already past today's capacity; move on.
			d = d.AddDate(0, 0, 1)
			cur = c.DayStart(d)
			continue
		}

		available := dayEnd.Sub(effective).Hours()
		if remaining <= available {
			return effective.Add(hoursDur(remaining)), nil
		}

		remaining -= available
		d = d.AddDate(0, 0, 1)
		cur = c.DayStart(d)
	}

	return time.Time{}, dagrerr.UnschedulableHorizon()
}

// MustAddWorkingHours panics on UnschedulableHorizon. It exists for call
// sites that have already bounded their inputs (e.g. tests); production
// code should use AddWorkingHours and propagate the error.
func (c *Calendar) MustAddWorkingHours(t time.Time, h float64) time.Time {
	r, err := c.AddWorkingHours(t, h)
	if err != nil {
		panic(err)
	}
	return r
}

// ProjectStartInstant returns the first instant of the first day with
// positive capacity at-or-after StartDatetime.
func (c *Calendar) ProjectStartInstant() (time.Time, error) {
	return c.AddWorkingHours(c.cfg.StartDatetime, 0)
}

// NextWorkingInstant returns t shifted forward to the next instant with
// positive remaining capacity (itself, if it already has capacity).
func (c *Calendar) NextWorkingInstant(t time.Time) (time.Time, error) {
	return c.AddWorkingHours(t, 0)
}

// StartOfWorkingDayOrNext returns the start of the working day on date d,
// shifted forward to the next working day if d has no capacity. Used to
// interpret a task's proposed_start.
func (c *Calendar) StartOfWorkingDayOrNext(d time.Time) (time.Time, error) {
	return c.AddWorkingHours(c.DayStart(dateOnly(d)), 0)
}

// EndOfWorkingDay returns the end-of-working-day instant for date d,
// shifted forward to the end of the next working day with positive
// capacity if d itself has none. Used to interpret a task's deadline.
func (c *Calendar) EndOfWorkingDay(d time.Time) (time.Time, error) {
	start, err := c.StartOfWorkingDayOrNext(d)
	if err != nil {
		return time.Time{}, err
	}
	return c.DayEnd(start), nil
}

// WorkingHoursBetween returns the number of working hours between start and
// end (0 if end is not after start).
func (c *Calendar) WorkingHoursBetween(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}

	total := 0.0
	d := dateOnly(start)
	cur := start

	for i := 0; i < maxHorizonDays; i++ {
		capToday := c.Capacity(d)
		if capToday <= 0 {
			d = d.AddDate(0, 0, 1)
			cur = c.DayStart(d)
			if !cur.Before(end) {
				break
			}
			continue
		}

		dayStart := c.DayStart(d)
		dayEnd := dayStart.Add(hoursDur(capToday))

		effective := cur
		if effective.Before(dayStart) {
			effective = dayStart
		}
		if !effective.Before(dayEnd) {
			d = d.AddDate(0, 0, 1)
			cur = c.DayStart(d)
			if !cur.Before(end) {
				break
			}
			continue
		}

		effEnd := dayEnd
		if end.Before(effEnd) {
			effEnd = end
		}
		if effEnd.After(effective) {
			total += effEnd.Sub(effective).Hours()
		}

		if !dayEnd.Before(end) {
			break
		}
		d = d.AddDate(0, 0, 1)
		cur = c.DayStart(d)
	}

	return total
}

// SubtractWorkingHours finds the instant start such that
// AddWorkingHours(start, h) lands at end, stepping backward through
// working days. Used to convert a negative elapsed-hours offset (e.g. a
// latest-start that falls before the project's zero point) back to a
// wall-clock instant.
func (c *Calendar) SubtractWorkingHours(end time.Time, h float64) (time.Time, error) {
	if h < 0 {
		return time.Time{}, dagrerr.InvalidField("hours", "must be non-negative")
	}

	remaining := h
	cur := end
	d := dateOnly(cur)

	for i := 0; i < maxHorizonDays; i++ {
		dayStart := c.DayStart(d)
		capToday := c.Capacity(d)

		if capToday <= 0 || !cur.After(dayStart) {
			prevDay := d.AddDate(0, 0, -1)
			prevStart := c.DayStart(prevDay)
			cur = prevStart.Add(hoursDur(c.Capacity(prevDay)))
			d = prevDay
			continue
		}

		available := cur.Sub(dayStart).Hours()
		if remaining <= available {
			return cur.Add(-hoursDur(remaining)), nil
		}

		remaining -= available
		prevDay := d.AddDate(0, 0, -1)
		prevStart := c.DayStart(prevDay)
		cur = prevStart.Add(hoursDur(c.Capacity(prevDay)))
		d = prevDay
	}

	return time.Time{}, dagrerr.UnschedulableHorizon()
}

// HoursToInstant converts a (possibly negative) elapsed-hours offset from
// ProjectStartInstant() back to a wall-clock instant.
func (c *Calendar) HoursToInstant(h float64) (time.Time, error) {
	start, err := c.ProjectStartInstant()
	if err != nil {
		return time.Time{}, err
	}
	if h >= 0 {
		return c.AddWorkingHours(start, h)
	}
	return c.SubtractWorkingHours(start, -h)
}

// ElapsedHours returns the working hours from ProjectStartInstant() to t.
// If t is before the project start, the result is negative.
func (c *Calendar) ElapsedHours(t time.Time) (float64, error) {
	start, err := c.ProjectStartInstant()
	if err != nil {
		return 0, err
	}
	if t.Before(start) {
		return -c.WorkingHoursBetween(t, start), nil
	}
	return c.WorkingHoursBetween(start, t), nil
}
