package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between consecutive outbound calls to a
// single upstream service, measured from the start of the previous call.
//
// Each upstream gets its own Pacer; the two catalogs never share limiter
// state. All pipeline blocking happens here and in the retry policy waits.
type Pacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewPacer creates a Pacer with the given minimum inter-request interval.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Wait blocks until the minimum interval since the previous call has elapsed
// or the context is cancelled. The reservation is taken even when the caller's
// request subsequently fails, so failed calls still count against the pace.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Interval returns the configured minimum inter-request interval.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
