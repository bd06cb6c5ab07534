package schedule

import (
	"time"

	"github.com/jimdaga/team-pulse/internal/settings"
)

// IsDue reports whether the morning briefing should run for targetTeamID.
// A non-zero forcedTeamID bypasses the schedule entirely and selects only that
// team. Otherwise the briefing must be enabled and now's hour must equal the
// configured hour; minutes are ignored, so the caller is expected to evaluate
// at most once per hour (see the claim package for the duplicate guard).
// now should already be in the clock the hour is defined in.
func IsDue(cfg settings.Resolved, now time.Time, forcedTeamID, targetTeamID uint) bool {
	if forcedTeamID != 0 {
		return targetTeamID == forcedTeamID
	}
	return cfg.BriefingEnabled && now.Hour() == cfg.BriefingHour
}

// IsWeeklyDue reports whether the weekly report should run for targetTeamID:
// the zoned weekday and hour must match the configured day and hour. Forcing
// follows the same rule as IsDue.
func IsWeeklyDue(cfg settings.Resolved, now time.Time, forcedTeamID, targetTeamID uint) bool {
	if forcedTeamID != 0 {
		return targetTeamID == forcedTeamID
	}
	return now.Weekday() == cfg.WeeklyDay && now.Hour() == cfg.WeeklyHour
}
