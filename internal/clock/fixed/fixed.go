// Package fixed provides a settable clock for tests and replays.
package fixed

import (
	"sync"
	"time"
)

// Clock returns a preset time until it is moved.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// New creates a Clock frozen at now.
func New(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the frozen time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
