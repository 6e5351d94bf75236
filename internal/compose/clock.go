package compose

import "time"

// Clock abstracts wall-clock time and poll-interval sleeps so the wait
// engine and state timestamps are deterministic under test.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
	// After returns a channel that delivers after d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// realClock delegates to the time package.
type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns the Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}
