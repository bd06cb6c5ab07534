package streams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/jimdaga/team-pulse/internal/dispatch"
	"github.com/redis/go-redis/v9"
)

const defaultBlock = 5 * time.Second

// ResultConsumer reads briefing results from a Redis Stream through a consumer group
type ResultConsumer struct {
	rdb          *redis.Client
	stream       string
	groupName    string
	consumerName string
	block        time.Duration
	logger       *slog.Logger
}

// NewResultConsumer creates a new ResultConsumer instance
func NewResultConsumer(redisURL, stream, group, consumerName string, logger *slog.Logger) (*ResultConsumer, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	// Read timeout must exceed the XReadGroup Block duration
	// to avoid spurious i/o timeout errors on idle streams.
	opts.ReadTimeout = 2 * defaultBlock

	return NewResultConsumerFromClient(context.Background(), redis.NewClient(opts), stream, group, consumerName, logger)
}

// NewResultConsumerFromClient wraps an existing client and ensures the group exists.
func NewResultConsumerFromClient(ctx context.Context, rdb *redis.Client, stream, group, consumerName string, logger *slog.Logger) (*ResultConsumer, error) {
	if stream == "" {
		stream = StreamBriefingResults
	}
	if group == "" {
		group = GroupBriefctl
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Start ID "0" means read from beginning if group is new
	err := rdb.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &ResultConsumer{
		rdb:          rdb,
		stream:       stream,
		groupName:    group,
		consumerName: consumerName,
		block:        defaultBlock,
		logger:       logger,
	}, nil
}

// ConsumeResults runs a blocking loop consuming results from the stream until
// ctx is cancelled. Messages whose handler fails stay pending for redelivery.
func (c *ResultConsumer) ConsumeResults(ctx context.Context, handler func(dispatch.Result) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupName,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    10,
			Block:    c.block,
		}).Result()

		if errors.Is(err, redis.Nil) {
			continue
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Blocking reads return a timeout when no messages arrive
			// within the Block duration. This is normal, not an error.
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			c.logger.Error("Failed to read from stream", "stream", c.stream, "error", err)
			if err := sleepCtx(ctx, time.Second); err != nil {
				return err
			}
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				c.process(ctx, message, handler)
			}
		}
	}
}

func (c *ResultConsumer) process(ctx context.Context, message redis.XMessage, handler func(dispatch.Result) error) {
	payloadStr, ok := message.Values["payload"].(string)
	if !ok {
		c.logger.Error("Invalid message payload", "message_id", message.ID)
		return
	}

	var result dispatch.Result
	if err := json.Unmarshal([]byte(payloadStr), &result); err != nil {
		c.logger.Error("Failed to unmarshal briefing", "error", err, "message_id", message.ID)
		return
	}

	if err := handler(result); err != nil {
		c.logger.Error("Handler failed", "error", err, "run_id", result.RunID, "team_id", result.TeamID)
		// Message stays in PEL for retry, don't ACK
		return
	}

	if err := c.rdb.XAck(context.WithoutCancel(ctx), c.stream, c.groupName, message.ID).Err(); err != nil {
		c.logger.Error("Failed to ACK message", "error", err, "message_id", message.ID)
	}
}

// Close closes the Redis client connection
func (c *ResultConsumer) Close() error {
	return c.rdb.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
