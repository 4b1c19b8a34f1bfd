package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T) (*Limiter, *MemoryStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(time.Hour, WithClock(clock.Now))
	t.Cleanup(func() { _ = store.Close() })
	l := New(store, nil)
	l.now = clock.Now
	return l, store, clock
}

func TestFixedWindowAllowsThenDenies(t *testing.T) {
	l, _, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		res := l.Check(ctx, "login:1.2.3.4", Auth)
		require.True(t, res.Allowed, "hit %d", i)
		assert.Equal(t, 5-i, res.Remaining)
	}
	res := l.Check(ctx, "login:1.2.3.4", Auth)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 15*60, res.RetryAfter)
}

func TestWindowResets(t *testing.T) {
	l, _, clock := newTestLimiter(t)
	ctx := context.Background()
	opts := Options{Window: time.Minute, Max: 2}

	l.Check(ctx, "k", opts)
	l.Check(ctx, "k", opts)
	clock.Advance(30 * time.Second)
	res := l.Check(ctx, "k", opts)
	require.False(t, res.Allowed)
	assert.Equal(t, 30, res.RetryAfter)

	clock.Advance(31 * time.Second)
	res = l.Check(ctx, "k", opts)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}

func TestKeysAreIndependent(t *testing.T) {
	l, _, _ := newTestLimiter(t)
	ctx := context.Background()
	opts := Options{Window: time.Minute, Max: 1}

	assert.True(t, l.Check(ctx, "a", opts).Allowed)
	assert.False(t, l.Check(ctx, "a", opts).Allowed)
	assert.True(t, l.Check(ctx, "b", opts).Allowed)
}

func TestSweepDropsExpiredWindows(t *testing.T) {
	l, store, clock := newTestLimiter(t)
	ctx := context.Background()

	l.Check(ctx, "short", Options{Window: time.Second, Max: 1})
	l.Check(ctx, "long", Options{Window: time.Hour, Max: 1})
	require.Equal(t, 2, store.Len())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestConcurrentHitsCountExactly(t *testing.T) {
	l, _, _ := newTestLimiter(t)
	ctx := context.Background()
	opts := Options{Window: time.Minute, Max: 50}

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Check(ctx, "burst", opts).Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("connection refused")
}

func TestStoreFailureAllows(t *testing.T) {
	l := New(failingStore{}, nil)
	res := l.Check(context.Background(), "k", Auth)
	assert.True(t, res.Allowed)
	assert.Equal(t, Auth.Max, res.Remaining)
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	l := New(NewRedisStore(rdb, "rl-test"), nil)
	window := Options{Window: 2 * time.Second, Max: 3}
	for i := 0; i < 3; i++ {
		require.True(t, l.Check(ctx, "ip:10.0.0.1", window).Allowed)
	}
	denied := l.Check(ctx, "ip:10.0.0.1", window)
	assert.False(t, denied.Allowed)
	assert.GreaterOrEqual(t, denied.RetryAfter, 1)

	ttl, err := rdb.PTTL(ctx, "rl-test:ip:10.0.0.1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.Eventually(t, func() bool {
		return l.Check(ctx, "ip:10.0.0.1", window).Allowed
	}, 5*time.Second, 250*time.Millisecond)
}
