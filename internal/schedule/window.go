// Package schedule decides when a team's briefing is due and which calendar
// dates it covers.
package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the storage format of report dates.
const DateLayout = "2006-01-02"

// Window is an inclusive range of calendar dates. Start and End are midnight
// UTC values carrying only the date; End is never before Start.
type Window struct {
	Start time.Time
	End   time.Time
}

// DateOf returns t's calendar date in t's own location as a midnight UTC value.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days is the number of calendar days covered, both ends included.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// StartDate formats Start as a report date.
func (w Window) StartDate() string { return w.Start.Format(DateLayout) }

// EndDate formats End as a report date.
func (w Window) EndDate() string { return w.End.Format(DateLayout) }

// Contains reports whether the calendar date of d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	day := DateOf(d)
	return !day.Before(w.Start) && !day.After(w.End)
}

// Label is the human-readable period used in briefing text.
func (w Window) Label() string {
	if w.Start.Equal(w.End) {
		return w.Start.Format("Mon Jan 2, 2006")
	}
	if w.Start.Year() != w.End.Year() {
		return fmt.Sprintf("%s - %s", w.Start.Format("Jan 2, 2006"), w.End.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2, 2006"))
}

func (w Window) String() string {
	return w.StartDate() + ".." + w.EndDate()
}

// DailyWindow returns the calendar day before now's date. When loc is nil the
// date is taken in now's own location, which for the scheduler is server time.
func DailyWindow(now time.Time, loc *time.Location) Window {
	if loc != nil {
		now = now.In(loc)
	}
	yesterday := DateOf(now).AddDate(0, 0, -1)
	return Window{Start: yesterday, End: yesterday}
}

// WeeklyWindow returns the seven-day window ending on the scheduled weekday
// of the current week in loc, or of the previous week when policy says the
// current week's report time has not been reached yet.
func WeeklyWindow(now time.Time, loc *time.Location, day time.Weekday, hour int, policy WeekPolicy) Window {
	if loc != nil {
		now = now.In(loc)
	}
	if policy == nil {
		policy = AlwaysElapsed{}
	}

	today := DateOf(now)
	end := today.AddDate(0, 0, int(day)-int(now.Weekday()))
	if !policy.Elapsed(now, day, hour) {
		end = end.AddDate(0, 0, -7)
	}
	return Window{Start: end.AddDate(0, 0, -6), End: end}
}
