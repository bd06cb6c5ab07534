package dispatch

import (
	"context"
	"time"

	"github.com/jimdaga/team-pulse/internal/digest"
	"github.com/jimdaga/team-pulse/internal/narrative"
	"github.com/jimdaga/team-pulse/internal/schedule"
)

// Kind selects which schedule and window a run uses.
type Kind string

const (
	KindDailyBriefing Kind = "daily_briefing"
	KindWeeklyReport  Kind = "weekly_report"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindDailyBriefing, KindWeeklyReport:
		return Kind(s), true
	default:
		return "", false
	}
}

// Team is a tenant as read from the data store, settings still raw.
type Team struct {
	ID       uint
	Name     string
	Timezone string
	Settings []byte
}

// DataStore is the read side of the relational store.
type DataStore interface {
	Teams(ctx context.Context) ([]Team, error)
	Reports(ctx context.Context, teamID uint, window schedule.Window) ([]digest.Record, error)
}

// Recorder receives each generated briefing (persistence, hand-off streams).
type Recorder interface {
	RecordBriefing(ctx context.Context, result Result) error
}

// Status is the per-team outcome of a dispatch run.
type Status string

const (
	StatusGenerated           Status = Status(narrative.OutcomeGenerated)
	StatusFallbackRateLimited Status = Status(narrative.OutcomeFallbackRateLimited)
	StatusFallbackError       Status = Status(narrative.OutcomeFallbackError)
	StatusNoData              Status = Status(narrative.OutcomeNoData)
	// StatusFailed marks a team whose data could not be fetched.
	StatusFailed Status = "failed"
	// StatusSkippedClaimed marks a team another run already generated for.
	StatusSkippedClaimed Status = "skipped_claimed"
)

// Result is the briefing produced for one team.
type Result struct {
	RunID       string            `json:"run_id"`
	TeamID      uint              `json:"team_id"`
	TeamName    string            `json:"team_name"`
	Kind        Kind              `json:"kind"`
	Window      schedule.Window   `json:"-"`
	WindowStart string            `json:"window_start"`
	WindowEnd   string            `json:"window_end"`
	Text        string            `json:"text"`
	Outcome     narrative.Outcome `json:"outcome"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// TeamResult is one team's line in the run summary.
type TeamResult struct {
	TeamID   uint
	TeamName string
	Status   Status
	Window   schedule.Window
	Error    string
}

// Summary is what a dispatch run reports when it finishes.
type Summary struct {
	RunID     string
	Kind      Kind
	StartedAt time.Time
	// Evaluated counts every team checked; Processed counts the due ones.
	Evaluated int
	Processed int
	Results   []TeamResult

	// Preview holds the raw text of the first due team in preview mode.
	Preview *Result
}

// Counts tallies team results by status.
func (s *Summary) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, r := range s.Results {
		counts[r.Status]++
	}
	return counts
}
