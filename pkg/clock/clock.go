// Package clock abstracts time so scheduled work can be driven deterministically in tests.
//
// Production code uses Real(); tests use Fake() and move time forward with Advance.
package clock

import "time"

// Clock abstracts time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for duration d, then calls f in its own goroutine (real) or synchronously
	// during Advance (fake). The returned Timer can cancel the pending call.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer represents a scheduled call.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. It returns true if the call stops the timer, false if the
// timer has already fired or been stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.stopFunc == nil {
		return false
	}
	return t.stopFunc()
}

// Real returns a Clock backed by the time package.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

func (realClock) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stopFunc: t.Stop}
}
