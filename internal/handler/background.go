package handler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/eventskona-auth/internal/queue"
)

// backgroundTimeout bounds work started after a response has been written.
const backgroundTimeout = 30 * time.Second

// background tracks goroutines that outlive their request, so shutdown can
// wait for pending token writes and event publishes.
type background struct {
	wg sync.WaitGroup
}

// run calls fn on its own goroutine with a context that keeps the request's
// values but not its cancellation.
func (b *background) run(ctx context.Context, fn func(context.Context)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (b *background) publishAsync(ctx context.Context, p queue.Publisher, logger *zap.Logger, ev queue.AuthEvent) {
	b.run(ctx, func(ctx context.Context) {
		if err := p.Publish(ctx, ev); err != nil {
			logger.Warn("publish auth event failed", zap.String("type", ev.Type), zap.String("user_id", ev.UserID), zap.Error(err))
		}
	})
}

// Wait blocks until all background work has finished.
func (b *background) Wait() { b.wg.Wait() }
