package claim

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jimdaga/team-pulse/internal/schedule"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(teamID uint) Key {
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	return Key{TeamID: teamID, Kind: "daily_briefing", Window: schedule.Window{Start: day, End: day}}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "claim:daily_briefing:7:2026-10-15:2026-10-15", testKey(7).String())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	ok, err := store.Claim(ctx, testKey(1), "run-a", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Claim(ctx, testKey(1), "run-b", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "second claim in the same window must lose")

	ok, err = store.Claim(ctx, testKey(2), "run-b", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "other teams are independent")

	require.NoError(t, store.Release(ctx, testKey(1), "run-b"))
	ok, _ = store.Claim(ctx, testKey(1), "run-c", time.Hour)
	assert.False(t, ok, "release by a non-owner is ignored")

	require.NoError(t, store.Release(ctx, testKey(1), "run-a"))
	ok, _ = store.Claim(ctx, testKey(1), "run-c", time.Hour)
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	ok, _ = store.Claim(ctx, testKey(2), "run-d", time.Hour)
	assert.True(t, ok, "expired claims can be taken again")
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStoreFromClient(rdb), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	ok, err := store.Claim(ctx, testKey(1), "run-a", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	owner, err := mr.Get(testKey(1).String())
	require.NoError(t, err)
	assert.Equal(t, "run-a", owner)

	ok, err = store.Claim(ctx, testKey(1), "run-b", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Release(ctx, testKey(1), "run-b"))
	assert.True(t, mr.Exists(testKey(1).String()), "non-owner release keeps the claim")

	require.NoError(t, store.Release(ctx, testKey(1), "run-a"))
	assert.False(t, mr.Exists(testKey(1).String()))
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	ok, err := store.Claim(ctx, testKey(3), "run-a", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(61 * time.Minute)

	ok, err = store.Claim(ctx, testKey(3), "run-b", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Claim(context.Background(), testKey(1), "run-a", time.Hour)
	assert.Error(t, err)
}

func TestNewRedisStoreBadURL(t *testing.T) {
	_, err := NewRedisStore("not a url")
	assert.Error(t, err)
}
