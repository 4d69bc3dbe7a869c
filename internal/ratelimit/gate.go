// Package ratelimit gates arbitrary operations behind a minimum
// inter-invocation interval derived from a calls-per-second target.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Gate enforces a minimum interval between invocations. The rate is supplied
// per call, so callers may derive it from the call's own arguments; the new
// interval applies from the call that computed it.
type Gate struct {
	mu       sync.Mutex
	lastCall time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewGate creates an idle gate. The first invocation passes immediately.
func NewGate() *Gate {
	return &Gate{now: time.Now}
}

// Invoke runs op at most rateHint times per second across all callers of this
// gate. A rateHint <= 0 disables limiting for that call. The wait is
// interruptible: a cancelled context returns ctx.Err() without recording an
// invocation. The gate's lock is held through the wait so invocation slots are
// handed out in lock acquisition order; op itself runs outside the lock.
func (g *Gate) Invoke(ctx context.Context, rateHint float64, op func(context.Context) error) error {
	if err := g.wait(ctx, rateHint); err != nil {
		return err
	}
	return op(ctx)
}

func (g *Gate) wait(ctx context.Context, rateHint float64) error {
	var minInterval time.Duration
	if rateHint > 0 {
		minInterval = time.Duration(float64(time.Second) / rateHint)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if minInterval > 0 {
		if remaining := minInterval - g.now().Sub(g.lastCall); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	g.lastCall = g.now()
	return nil
}
