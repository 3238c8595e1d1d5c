package project

import (
	"time"

	"github.com/dagr-project/dagr/internal/calendar"
)

// Config mirrors the Project Configuration: the wall-clock anchor and
// working-day policy that the Calendar interprets.
type Config struct {
	StartDatetime     time.Time
	HoursPerDay       float64
	DayStartTime      calendar.TimeOfDay
	SkipWeekends      bool
	CapacityOverrides map[string]float64
}

// DefaultConfig returns a Config with the spec's stated defaults
// (8 working hours/day, day starting at 09:00, weekends skipped) anchored
// at start.
func DefaultConfig(start time.Time) Config {
	return Config{
		StartDatetime:     start,
		HoursPerDay:       8.0,
		DayStartTime:      calendar.TimeOfDay{Hour: 9, Minute: 0},
		SkipWeekends:      true,
		CapacityOverrides: map[string]float64{},
	}
}

// Calendar builds the pure Calendar value backing this configuration.
func (c Config) Calendar() *calendar.Calendar {
	return calendar.New(calendar.Config{
		StartDatetime:     c.StartDatetime,
		HoursPerDay:       c.HoursPerDay,
		DayStartTime:      c.DayStartTime,
		SkipWeekends:      c.SkipWeekends,
		CapacityOverrides: c.CapacityOverrides,
	})
}

func (c Config) clone() Config {
	overrides := make(map[string]float64, len(c.CapacityOverrides))
	for k, v := range c.CapacityOverrides {
		overrides[k] = v
	}
	c.CapacityOverrides = overrides
	return c
}
