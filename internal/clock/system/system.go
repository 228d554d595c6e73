// Package system provides the wall clock used for scrape timestamps and the
// calendar fallback year.
package system

import "time"

// Clock implements legislation.Clock; times are always UTC.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
