// Package dispatch runs the briefing pipeline across every team: evaluate the
// schedule, compute the window, claim it, fetch reports, build the digest,
// generate the narrative and hand the result to the recorders.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jimdaga/team-pulse/internal/claim"
	"github.com/jimdaga/team-pulse/internal/digest"
	"github.com/jimdaga/team-pulse/internal/narrative"
	"github.com/jimdaga/team-pulse/internal/schedule"
	"github.com/jimdaga/team-pulse/internal/settings"
)

const defaultClaimTTL = 2 * time.Hour

// Narrator turns a digest into briefing text.
type Narrator interface {
	Generate(ctx context.Context, d digest.Digest, period string) (string, narrative.Outcome)
}

// Options tunes a Dispatcher.
type Options struct {
	// ClaimTTL bounds how long a claimed window blocks other runs.
	ClaimTTL time.Duration
	// WeekPolicy decides whether the current week has elapsed for weekly windows.
	WeekPolicy schedule.WeekPolicy
	// Now overrides the clock.
	Now func() time.Time
}

// Dispatcher processes teams one at a time.
type Dispatcher struct {
	store     DataStore
	narrator  Narrator
	claims    claim.Store
	recorders []Recorder
	logger    *slog.Logger

	claimTTL time.Duration
	policy   schedule.WeekPolicy
	now      func() time.Time
}

// New creates a Dispatcher. claims may be nil, in which case a process-local
// claim store is used.
func New(store DataStore, narrator Narrator, claims claim.Store, recorders []Recorder, logger *slog.Logger, opts Options) *Dispatcher {
	if claims == nil {
		claims = claim.NewMemoryStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ClaimTTL <= 0 {
		opts.ClaimTTL = defaultClaimTTL
	}
	if opts.WeekPolicy == nil {
		opts.WeekPolicy = schedule.AlwaysElapsed{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{
		store:     store,
		narrator:  narrator,
		claims:    claims,
		recorders: recorders,
		logger:    logger,
		claimTTL:  opts.ClaimTTL,
		policy:    opts.WeekPolicy,
		now:       opts.Now,
	}
}

// RunRequest describes one invocation.
type RunRequest struct {
	Kind Kind
	// Now is the evaluation instant; zero means the dispatcher's clock.
	Now time.Time
	// ForcedTeamID selects a single team and bypasses its schedule. Zero means
	// a normal scheduled run.
	ForcedTeamID uint
	// Preview stops after the first due team and returns its text without
	// claiming or recording anything.
	Preview bool
}

// Run evaluates every team for req.Kind. Per-team failures are reported in
// the summary; only a failure to list teams or a cancelled context aborts.
func (d *Dispatcher) Run(ctx context.Context, req RunRequest) (*Summary, error) {
	if _, ok := ParseKind(string(req.Kind)); !ok {
		return nil, fmt.Errorf("unknown briefing kind %q", req.Kind)
	}
	now := req.Now
	if now.IsZero() {
		now = d.now()
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Kind:      req.Kind,
		StartedAt: now,
	}
	log := d.logger.With("run_id", summary.RunID, "kind", string(req.Kind))

	teams, err := d.store.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	log.Info("Dispatch run started",
		"teams", len(teams),
		"forced_team_id", req.ForcedTeamID,
		"preview", req.Preview,
	)

	for _, team := range teams {
		if err := ctx.Err(); err != nil {
			log.Warn("Dispatch run cancelled", "processed", summary.Processed, "error", err)
			return summary, err
		}
		summary.Evaluated++

		cfg, err := settings.Resolve(team.Settings)
		if err != nil {
			log.Warn("Team settings invalid, using defaults", "team_id", team.ID, "error", err)
		}
		loc := d.location(team, log)
		zoned := now.In(loc)

		if !d.isDue(req.Kind, cfg, zoned, req.ForcedTeamID, team.ID) {
			continue
		}
		summary.Processed++

		window := d.window(req.Kind, cfg, now, loc)
		tr, result := d.processTeam(ctx, log, summary.RunID, req, team, window)
		summary.Results = append(summary.Results, tr)

		if req.Preview {
			summary.Preview = result
			log.Info("Preview generated", "team_id", team.ID, "status", string(tr.Status))
			return summary, nil
		}
	}

	counts := summary.Counts()
	log.Info("Dispatch run finished",
		"evaluated", summary.Evaluated,
		"processed", summary.Processed,
		"generated", counts[StatusGenerated],
		"fallback", counts[StatusFallbackRateLimited]+counts[StatusFallbackError],
		"no_data", counts[StatusNoData],
		"failed", counts[StatusFailed],
		"skipped", counts[StatusSkippedClaimed],
	)
	return summary, nil
}

func (d *Dispatcher) isDue(kind Kind, cfg settings.Resolved, zoned time.Time, forced, target uint) bool {
	if kind == KindWeeklyReport {
		return schedule.IsWeeklyDue(cfg, zoned, forced, target)
	}
	return schedule.IsDue(cfg, zoned, forced, target)
}

func (d *Dispatcher) window(kind Kind, cfg settings.Resolved, now time.Time, loc *time.Location) schedule.Window {
	if kind == KindWeeklyReport {
		return schedule.WeeklyWindow(now, loc, cfg.WeeklyDay, cfg.WeeklyHour, d.policy)
	}
	return schedule.DailyWindow(now, loc)
}

func (d *Dispatcher) location(team Team, log *slog.Logger) *time.Location {
	if team.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(team.Timezone)
	if err != nil {
		log.Warn("Unknown team timezone, using UTC", "team_id", team.ID, "timezone", team.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

// processTeam runs claim, fetch, digest, generate and record for one due team.
// The returned Result is nil when nothing was generated.
func (d *Dispatcher) processTeam(ctx context.Context, log *slog.Logger, runID string, req RunRequest, team Team, window schedule.Window) (TeamResult, *Result) {
	tr := TeamResult{TeamID: team.ID, TeamName: team.Name, Window: window}
	log = log.With("team_id", team.ID, "window", window.String())

	key := claim.Key{TeamID: team.ID, Kind: string(req.Kind), Window: window}
	if !req.Preview {
		ok, err := d.claims.Claim(ctx, key, runID, d.claimTTL)
		if err != nil {
			log.Error("Failed to claim briefing window", "error", err)
			tr.Status, tr.Error = StatusFailed, err.Error()
			return tr, nil
		}
		if !ok {
			log.Info("Briefing window already claimed, skipping")
			tr.Status = StatusSkippedClaimed
			return tr, nil
		}
	}

	records, err := d.store.Reports(ctx, team.ID, window)
	if err != nil {
		log.Error("Failed to fetch reports", "error", err)
		tr.Status, tr.Error = StatusFailed, err.Error()
		if !req.Preview {
			// Let a later run retry this window.
			if relErr := d.claims.Release(context.WithoutCancel(ctx), key, runID); relErr != nil {
				log.Warn("Failed to release claim", "error", relErr)
			}
		}
		return tr, nil
	}

	dg := digest.Build(records)
	text, outcome := d.narrator.Generate(ctx, dg, window.Label())

	result := &Result{
		RunID:       runID,
		TeamID:      team.ID,
		TeamName:    team.Name,
		Kind:        req.Kind,
		Window:      window,
		WindowStart: window.StartDate(),
		WindowEnd:   window.EndDate(),
		Text:        text,
		Outcome:     outcome,
		GeneratedAt: d.now().UTC(),
	}
	tr.Status = Status(outcome)

	if req.Preview {
		return tr, result
	}

	var recordErrs []error
	for _, r := range d.recorders {
		if err := r.RecordBriefing(ctx, *result); err != nil {
			recordErrs = append(recordErrs, err)
		}
	}
	if err := errors.Join(recordErrs...); err != nil {
		log.Error("Failed to record briefing", "outcome", string(outcome), "error", err)
		tr.Error = err.Error()
	}
	if len(d.recorders) > 0 && len(recordErrs) == len(d.recorders) {
		// Nothing kept the briefing; free the window so a retry regenerates it.
		tr.Status = StatusFailed
		if relErr := d.claims.Release(context.WithoutCancel(ctx), key, runID); relErr != nil {
			log.Warn("Failed to release claim", "error", relErr)
		}
		return tr, result
	}

	log.Info("Briefing produced",
		"outcome", string(outcome),
		"records", dg.RecordCount(),
		"entries", len(dg.Entries),
	)
	return tr, result
}
