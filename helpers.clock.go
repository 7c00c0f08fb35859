package main

import (
	"time"
)

var (
	_ Clocker      = (*Clock)(nil) // ensure Clock implements Clocker.
	_ TimerClocker = (*Clock)(nil) // ensure Clock implements TimerClocker.
)

// Clocker is an interface for getting current real time.
type Clocker interface {
	Now() time.Time
}

// Stopper is the part of *time.Timer used to disarm a pending timer.
type Stopper interface {
	Stop() bool
}

// TimerClocker is an interface which provides the current time and delayed callbacks.
type TimerClocker interface {
	Clocker
	AfterFunc(d time.Duration, f func()) Stopper
}

// Clock implements the TimerClocker interface.
type Clock struct {
	tz *time.Location
}

// NewClock returns a ready to use Clock with timezone sets
// to UTC in production environment and Local in dev env.
func NewClock(isProd bool) *Clock {
	if isProd {
		return &Clock{time.UTC}
	}
	return &Clock{time.Local}
}

// Now provides current clock time.
func (ck *Clock) Now() time.Time {
	return time.Now().In(ck.tz)
}

// AfterFunc calls f in its own goroutine once d elapsed.
func (ck *Clock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}
