package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jimdaga/team-pulse/internal/config"
	"github.com/jimdaga/team-pulse/internal/dispatch"
)

// StartScheduler creates and starts an Asynq Scheduler that enqueues one
// dispatch task per briefing kind on cfg.DispatchSchedule (hourly by default).
// Teams are evaluated in their own timezone by the dispatcher; the scheduler
// timezone only affects how the cron expression is read.
// Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	location, err := time.LoadLocation(cfg.SchedulerTimezone)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", cfg.SchedulerTimezone, "error", err)
		location = time.UTC
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	for _, kind := range []dispatch.Kind{dispatch.KindDailyBriefing, dispatch.KindWeeklyReport} {
		// Unique keeps a doubled scheduler tick from queueing the same run twice
		task, err := NewDispatchTask(kind, asynq.Unique(55*time.Minute))
		if err != nil {
			return nil, fmt.Errorf("failed to build %s task: %w", kind, err)
		}

		entryID, err := scheduler.Register(cfg.DispatchSchedule, task)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s schedule: %w", kind, err)
		}
		slog.Info("Registered dispatch schedule", "kind", string(kind), "entry_id", entryID)
	}

	// Start scheduler (non-blocking)
	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	slog.Info(
		"Scheduler started",
		"schedule", cfg.DispatchSchedule,
		"timezone", location.String(),
	)

	return func() { scheduler.Shutdown() }, nil
}
