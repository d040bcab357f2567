package common

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Pacer inserts human-like think time between browser actions. The rate
// limiter enforces the minimum spacing even across quick successive calls;
// the jitter on top keeps the cadence irregular.
type Pacer struct {
	limiter *rate.Limiter
	jitter  time.Duration
}

// NewPacer creates a pacer that waits between min and max per action
func NewPacer(min, max time.Duration) *Pacer {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return &Pacer{
		limiter: rate.NewLimiter(rate.Every(min), 1),
		jitter:  max - min,
	}
}

// Wait blocks for the next paced slot plus a random jitter. Returns early
// when the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) {
	if err := p.limiter.Wait(ctx); err != nil {
		return
	}
	if p.jitter <= 0 {
		return
	}
	delay := time.Duration(rand.Int63n(int64(p.jitter)))
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}
