package main

import (
	"sync"
)

// Viewport is an observable "narrow layout" signal derived from the
// current width in logical units.
type Viewport struct {
	mu         sync.Mutex
	breakpoint int
	width      int
	nextID     uint64
	subs       map[uint64]func(narrow bool)
}

// NewViewport provides a viewport starting at width.
func NewViewport(breakpoint, width int) *Viewport {
	return &Viewport{
		breakpoint: breakpoint,
		width:      width,
		subs:       make(map[uint64]func(bool)),
	}
}

// IsNarrowWidth tells whether width falls at or below breakpoint.
func IsNarrowWidth(width, breakpoint int) bool {
	return width <= breakpoint
}

// Width returns the current width in logical units.
func (v *Viewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// Narrow returns the current value of the signal.
func (v *Viewport) Narrow() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return IsNarrowWidth(v.width, v.breakpoint)
}

// SetWidth updates the width and notifies subscribers when the signal flips.
func (v *Viewport) SetWidth(width int) {
	v.mu.Lock()
	before := IsNarrowWidth(v.width, v.breakpoint)
	v.width = width
	after := IsNarrowWidth(v.width, v.breakpoint)
	var subs []func(bool)
	if before != after {
		for _, fn := range v.subs {
			subs = append(subs, fn)
		}
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(after)
	}
}

// Subscribe registers fn for changes of the signal. The returned
// function releases the subscription and is safe to call twice.
func (v *Viewport) Subscribe(fn func(narrow bool)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	id := v.nextID
	v.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (v *Viewport) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}
