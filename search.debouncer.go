package main

import (
	"sync"
	"time"
)

// Debouncer turns a burst of values into a single delayed notification
// carrying the last value. It is safe for concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	clock   TimerClocker
	notify  func(string)
	pending Stopper
	gen     uint64
}

// NewDebouncer provides a Debouncer which calls notify on settle.
func NewDebouncer(clock TimerClocker, notify func(string)) *Debouncer {
	return &Debouncer{clock: clock, notify: notify}
}

// Schedule arms the timer for value, replacing any pending one.
func (d *Debouncer) Schedule(value string, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disarm()
	gen := d.gen
	d.pending = d.clock.AfterFunc(delay, func() {
		d.fire(gen, value)
	})
}

// Cancel disarms any pending timer without notification.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disarm()
}

// Pending reports whether a timer is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// disarm must be called with the lock held. Bumping the generation
// silences a timer which already fired but did not get the lock yet.
func (d *Debouncer) disarm() {
	d.gen++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

func (d *Debouncer) fire(gen uint64, value string) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.gen++
	d.mu.Unlock()
	d.notify(value)
}
