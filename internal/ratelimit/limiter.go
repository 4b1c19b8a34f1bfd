// Package ratelimit implements a fixed-window request counter behind a
// pluggable Store.  MemoryStore is process local: with N server instances the
// effective limit is N times the configured one.  RedisStore shares windows
// across instances.
package ratelimit

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/eventskona-auth/internal/config"
)

// Options bounds a key to Max hits per Window.
type Options struct {
	Window time.Duration
	Max    int
}

// Presets used by the router.
var (
	Auth    = Options{Window: 15 * time.Minute, Max: 5}
	General = Options{Window: time.Minute, Max: 100}
	Upload  = Options{Window: time.Minute, Max: 10}
	Webhook = Options{Window: time.Minute, Max: 200}
)

// FromConfig converts a configured limit into Options.
func FromConfig(l config.Limit) Options {
	return Options{Window: l.Window, Max: l.Max}
}

// Result describes the state of a key after a hit.  RetryAfter is in whole
// seconds and only set when Allowed is false.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int
}

// Store counts hits per key.  Hit increments the counter for key, opening a
// new window of the given length when none is active, and returns the count
// and the end of the current window.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

// Limiter applies Options on top of a Store.
type Limiter struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// New builds a Limiter.  A nil logger is replaced with a no-op one.
func New(store Store, logger *zap.Logger) *Limiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{store: store, logger: logger, now: time.Now}
}

// Check records a hit for key and reports whether it is within opts.  Store
// failures let the request through.
func (l *Limiter) Check(ctx context.Context, key string, opts Options) Result {
	count, resetAt, err := l.store.Hit(ctx, key, opts.Window)
	if err != nil {
		l.logger.Warn("rate limit store failed, allowing request", zap.String("key", key), zap.Error(err))
		return Result{Allowed: true, Limit: opts.Max, Remaining: opts.Max, ResetAt: l.now().Add(opts.Window)}
	}
	res := Result{
		Allowed: count <= int64(opts.Max),
		Limit:   opts.Max,
		ResetAt: resetAt,
	}
	if remaining := int64(opts.Max) - count; remaining > 0 {
		res.Remaining = int(remaining)
	}
	if !res.Allowed {
		secs := int(math.Ceil(resetAt.Sub(l.now()).Seconds()))
		if secs < 1 {
			secs = 1
		}
		res.RetryAfter = secs
	}
	return res
}
