package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jimdaga/team-pulse/internal/dispatch"
)

// Task type constants
const (
	// TaskDispatchBriefings evaluates every team for one briefing kind.
	TaskDispatchBriefings = "briefing:dispatch"
	// TaskGenerateBriefing forces a briefing for a single team.
	TaskGenerateBriefing = "briefing:generate"
)

// DispatchPayload is the payload of TaskDispatchBriefings.
type DispatchPayload struct {
	Kind dispatch.Kind `json:"kind"`
}

// GeneratePayload is the payload of TaskGenerateBriefing.
type GeneratePayload struct {
	TeamID uint          `json:"team_id"`
	Kind   dispatch.Kind `json:"kind"`
}

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// NewDispatchTask builds a dispatch task for kind. A run processes every team
// sequentially, hence the longer timeout.
func NewDispatchTask(kind dispatch.Kind, opts ...asynq.Option) (*asynq.Task, error) {
	payload, err := json.Marshal(DispatchPayload{Kind: kind})
	if err != nil {
		return nil, err
	}
	base := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Minute),
		asynq.Retention(24 * time.Hour),
	}
	return asynq.NewTask(TaskDispatchBriefings, payload, append(base, opts...)...), nil
}

// NewGenerateTask builds a forced briefing task for one team.
// The task will be processed with a 5-minute timeout, retry up to 3 times,
// and retain for 24 hours after completion.
func NewGenerateTask(teamID uint, kind dispatch.Kind) (*asynq.Task, error) {
	if teamID == 0 {
		return nil, fmt.Errorf("team id is required")
	}
	payload, err := json.Marshal(GeneratePayload{TeamID: teamID, Kind: kind})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(
		TaskGenerateBriefing,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
	), nil
}

// EnqueueForcedBriefing enqueues a briefing for one team regardless of its
// schedule and returns the task ID.
func EnqueueForcedBriefing(teamID uint, kind dispatch.Kind) (string, error) {
	if client == nil {
		return "", fmt.Errorf("task client not initialized")
	}
	task, err := NewGenerateTask(teamID, kind)
	if err != nil {
		return "", err
	}

	info, err := client.Enqueue(task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue briefing: %w", err)
	}
	return info.ID, nil
}

// EnqueueDispatch enqueues an immediate scheduled-style run for kind.
func EnqueueDispatch(kind dispatch.Kind) (string, error) {
	if client == nil {
		return "", fmt.Errorf("task client not initialized")
	}
	task, err := NewDispatchTask(kind)
	if err != nil {
		return "", err
	}

	info, err := client.Enqueue(task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue dispatch: %w", err)
	}
	return info.ID, nil
}
