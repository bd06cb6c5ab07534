package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jimdaga/team-pulse/internal/config"
	"github.com/jimdaga/team-pulse/internal/dispatch"
)

// Runner executes a dispatch run.
type Runner interface {
	Run(ctx context.Context, req dispatch.RunRequest) (*dispatch.Summary, error)
}

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

// Implement asynq.Logger interface methods
func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, runner Runner) error {
	srv, mux, err := newServer(cfg, runner)
	if err != nil {
		return err
	}

	// Note: Scheduler is started separately in main.go worker mode
	// and deferred there for shutdown coordination.
	// Run blocks and handles its own signal interception
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop function.
// Use this for embedded mode so the caller can coordinate shutdown.
func Start(cfg *config.Config, runner Runner) (stop func(), err error) {
	srv, mux, err := newServer(cfg, runner)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, runner Runner) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	// One slot for a scheduled run, one for a forced briefing
	const concurrency = 2
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     concurrency,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	logger.Info("Worker starting", "concurrency", concurrency)
	return srv, NewServeMux(logger, runner), nil
}

// NewServeMux registers the briefing task handlers.
func NewServeMux(logger *slog.Logger, runner Runner) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDispatchBriefings, handleDispatchBriefings(logger, runner))
	mux.HandleFunc(TaskGenerateBriefing, handleGenerateBriefing(logger, runner))
	return mux
}

// handleDispatchBriefings runs the scheduled pipeline for every team.
// Retrying is safe: windows already generated are skipped by their claim.
func handleDispatchBriefings(logger *slog.Logger, runner Runner) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload DispatchPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Invalid payload - don't retry
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}
		if _, ok := dispatch.ParseKind(string(payload.Kind)); !ok {
			return fmt.Errorf("unknown briefing kind %q: %w", payload.Kind, asynq.SkipRetry)
		}

		logger.Info("Processing briefing:dispatch task", "kind", string(payload.Kind))

		summary, err := runner.Run(ctx, dispatch.RunRequest{Kind: payload.Kind})
		if err != nil {
			return fmt.Errorf("dispatch run failed: %w", err)
		}

		counts := summary.Counts()
		logger.Info(
			"Dispatch task completed",
			"run_id", summary.RunID,
			"kind", string(payload.Kind),
			"evaluated", summary.Evaluated,
			"processed", summary.Processed,
			"failed", counts[dispatch.StatusFailed],
		)
		return nil
	}
}

// handleGenerateBriefing forces a briefing for one team.
func handleGenerateBriefing(logger *slog.Logger, runner Runner) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload GeneratePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}
		if payload.TeamID == 0 {
			return fmt.Errorf("missing team_id: %w", asynq.SkipRetry)
		}
		if payload.Kind == "" {
			payload.Kind = dispatch.KindDailyBriefing
		}
		if _, ok := dispatch.ParseKind(string(payload.Kind)); !ok {
			return fmt.Errorf("unknown briefing kind %q: %w", payload.Kind, asynq.SkipRetry)
		}

		logger.Info(
			"Processing briefing:generate task",
			"team_id", payload.TeamID,
			"kind", string(payload.Kind),
		)

		summary, err := runner.Run(ctx, dispatch.RunRequest{Kind: payload.Kind, ForcedTeamID: payload.TeamID})
		if err != nil {
			return fmt.Errorf("forced run failed: %w", err)
		}
		if summary.Processed == 0 {
			// Team not found - don't retry
			logger.Error("Team not found", "team_id", payload.TeamID)
			return fmt.Errorf("team %d not found: %w", payload.TeamID, asynq.SkipRetry)
		}

		result := summary.Results[0]
		if result.Status == dispatch.StatusFailed {
			// Fetch failures are retryable; the claim was released
			return fmt.Errorf("briefing for team %d failed: %s", payload.TeamID, result.Error)
		}
		if result.Status == dispatch.StatusSkippedClaimed {
			logger.Warn(
				"Briefing window already claimed, nothing regenerated",
				"team_id", payload.TeamID,
				"run_id", summary.RunID,
				"window", result.Window.String(),
			)
			return nil
		}

		logger.Info(
			"Briefing generation completed",
			"team_id", payload.TeamID,
			"run_id", summary.RunID,
			"status", string(result.Status),
		)
		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		// Check if this is the final failure (task will move to dead letter queue)
		if retried >= maxRetry {
			logger.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
