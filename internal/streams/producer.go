package streams

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jimdaga/team-pulse/internal/dispatch"
	"github.com/redis/go-redis/v9"
)

// Publisher hands generated briefings to downstream consumers over a Redis Stream
type Publisher struct {
	rdb    *redis.Client
	stream string
	now    func() time.Time
}

var _ dispatch.Recorder = (*Publisher)(nil)

// NewPublisher creates a new Publisher instance. An empty stream name uses
// StreamBriefingResults.
func NewPublisher(redisURL, stream string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return NewPublisherFromClient(redis.NewClient(opts), stream), nil
}

// NewPublisherFromClient wraps an existing client.
func NewPublisherFromClient(rdb *redis.Client, stream string) *Publisher {
	if stream == "" {
		stream = StreamBriefingResults
	}
	return &Publisher{rdb: rdb, stream: stream, now: time.Now}
}

// Stream returns the stream name messages are added to.
func (p *Publisher) Stream() string { return p.stream }

// PublishBriefing adds a briefing result to the stream and returns its message ID
func (p *Publisher) PublishBriefing(ctx context.Context, result dispatch.Result) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal briefing: %w", err)
	}

	id, err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: maxStreamLen,
		Approx: true,
		ID:     "*", // auto-generate ID
		Values: map[string]interface{}{
			"payload":        string(payload),
			"published_at":   p.now().Unix(),
			"schema_version": SchemaVersionV1,
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to stream: %w", err)
	}

	return id, nil
}

// RecordBriefing implements dispatch.Recorder.
func (p *Publisher) RecordBriefing(ctx context.Context, result dispatch.Result) error {
	_, err := p.PublishBriefing(ctx, result)
	return err
}

// Close closes the Redis client connection
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
