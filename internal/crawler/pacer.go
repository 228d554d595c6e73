package crawler

import (
	"context"
	"time"
)

// pacer throttles requests to the parliament site.
type pacer interface {
	Wait(ctx context.Context)
}

// fixedPacer sleeps for a constant delay, returning early on cancellation.
type fixedPacer struct {
	delay time.Duration
}

func (p fixedPacer) Wait(ctx context.Context) {
	if p.delay <= 0 {
		return
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
