package schedule

import (
	"fmt"
	"strings"
	"time"
)

// WeekPolicy decides whether the current week's scheduled report moment is
// treated as already elapsed, which selects the current week over the last.
type WeekPolicy interface {
	Elapsed(zonedNow time.Time, day time.Weekday, hour int) bool
	Name() string
}

// AlwaysElapsed always reports the current week. This is the shipped behavior.
type AlwaysElapsed struct{}

func (AlwaysElapsed) Elapsed(time.Time, time.Weekday, int) bool { return true }
func (AlwaysElapsed) Name() string                              { return "always" }

// ElapsedByClock compares the zoned weekday and hour against the schedule
// (Sunday=0 ordering): the week counts as elapsed once the scheduled day and
// hour have been reached.
type ElapsedByClock struct{}

func (ElapsedByClock) Elapsed(zonedNow time.Time, day time.Weekday, hour int) bool {
	current := zonedNow.Weekday()
	if current != day {
		return current > day
	}
	return zonedNow.Hour() >= hour
}

func (ElapsedByClock) Name() string { return "elapsed" }

// PolicyByName maps a configuration value to a WeekPolicy.
func PolicyByName(name string) (WeekPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "always":
		return AlwaysElapsed{}, nil
	case "elapsed":
		return ElapsedByClock{}, nil
	default:
		return AlwaysElapsed{}, fmt.Errorf("unknown week policy %q", name)
	}
}
