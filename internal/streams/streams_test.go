package streams

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jimdaga/team-pulse/internal/dispatch"
	"github.com/jimdaga/team-pulse/internal/narrative"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func sampleResult(teamID uint) dispatch.Result {
	return dispatch.Result{
		RunID:       "run-1",
		TeamID:      teamID,
		TeamName:    "alpha",
		Kind:        dispatch.KindDailyBriefing,
		WindowStart: "2026-10-15",
		WindowEnd:   "2026-10-15",
		Text:        "**Blockers**\n- none",
		Outcome:     narrative.OutcomeGenerated,
		GeneratedAt: time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC),
	}
}

func TestPublisherRecordBriefing(t *testing.T) {
	rdb := newClient(t)
	pub := NewPublisherFromClient(rdb, "")
	pub.now = func() time.Time { return time.Unix(1700000000, 0) }

	require.NoError(t, pub.RecordBriefing(context.Background(), sampleResult(3)))

	msgs, err := rdb.XRange(context.Background(), StreamBriefingResults, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	values := msgs[0].Values
	assert.Equal(t, SchemaVersionV1, values["schema_version"])
	assert.Equal(t, "1700000000", values["published_at"])

	var got dispatch.Result
	require.NoError(t, json.Unmarshal([]byte(values["payload"].(string)), &got))
	assert.Equal(t, uint(3), got.TeamID)
	assert.Equal(t, narrative.OutcomeGenerated, got.Outcome)
	assert.Equal(t, "2026-10-15", got.WindowStart)
}

func TestPublisherCustomStream(t *testing.T) {
	rdb := newClient(t)
	pub := NewPublisherFromClient(rdb, "team:briefings")
	assert.Equal(t, "team:briefings", pub.Stream())

	id, err := pub.PublishBriefing(context.Background(), sampleResult(1))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	n, err := rdb.XLen(context.Background(), "team:briefings").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewPublisherBadURL(t *testing.T) {
	_, err := NewPublisher("::not-a-url", "")
	assert.Error(t, err)
}

func newConsumer(t *testing.T, rdb *redis.Client) *ResultConsumer {
	t.Helper()
	c, err := NewResultConsumerFromClient(context.Background(), rdb, "", "", "test-1",
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	c.block = 20 * time.Millisecond
	return c
}

func TestConsumeResultsAcksHandledMessages(t *testing.T) {
	rdb := newClient(t)
	pub := NewPublisherFromClient(rdb, "")
	consumer := newConsumer(t, rdb)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, id := range []uint{1, 2} {
		_, err := pub.PublishBriefing(ctx, sampleResult(id))
		require.NoError(t, err)
	}

	var mu sync.Mutex
	var seen []uint
	err := consumer.ConsumeResults(ctx, func(r dispatch.Result) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.TeamID)
		if len(seen) == 2 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []uint{1, 2}, seen)

	pending, err := rdb.XPending(context.Background(), StreamBriefingResults, GroupBriefctl).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestConsumeResultsLeavesFailedMessagesPending(t *testing.T) {
	rdb := newClient(t)
	pub := NewPublisherFromClient(rdb, "")
	consumer := newConsumer(t, rdb)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pub.PublishBriefing(ctx, sampleResult(1))
	require.NoError(t, err)

	err = consumer.ConsumeResults(ctx, func(dispatch.Result) error {
		cancel()
		return errors.New("downstream unavailable")
	})
	assert.ErrorIs(t, err, context.Canceled)

	pending, err := rdb.XPending(context.Background(), StreamBriefingResults, GroupBriefctl).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}

func TestConsumerGroupCreationIsIdempotent(t *testing.T) {
	rdb := newClient(t)
	newConsumer(t, rdb)
	newConsumer(t, rdb)
}

func TestPrintBriefing(t *testing.T) {
	var buf bytes.Buffer
	r := sampleResult(4)
	r.Kind = dispatch.KindWeeklyReport
	r.WindowStart = "2026-10-10"
	r.WindowEnd = "2026-10-16"

	require.NoError(t, PrintBriefing(&buf)(r))

	out := buf.String()
	assert.Contains(t, out, "== alpha #4 weekly_report 2026-10-10..2026-10-16 [generated]")
	assert.Contains(t, out, "**Blockers**\n- none\n")
}
