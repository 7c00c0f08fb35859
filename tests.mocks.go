package main

import (
	"context"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// This file contains mocks definitions needed to perform unit tests.

// MockBookFetcher records searches and delegates to SearchFunc.
type MockBookFetcher struct {
	mu         sync.Mutex
	queries    []string
	SearchFunc func(ctx context.Context, query string) ([]Book, error)
}

// Search mocks the behavior of the remote catalog search.
func (m *MockBookFetcher) Search(ctx context.Context, query string) ([]Book, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.SearchFunc == nil {
		return []Book{}, nil
	}
	return m.SearchFunc(ctx, query)
}

// Queries returns the searched values in call order.
func (m *MockBookFetcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.queries...)
}

// MockTimerClocker implements a fake TimerClocker whose time only
// moves forward through Advance.
type MockTimerClocker struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
}

type mockTimer struct {
	clock   *MockTimerClocker
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

// NewMockTimerClocker returns a mocked instance starting at
// `Sun, 02 Jul 2023 00:00:00 UTC`.
func NewMockTimerClocker() *MockTimerClocker {
	return &MockTimerClocker{now: time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns the mocked current time.
func (mc *MockTimerClocker) Now() time.Time {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.now
}

// AfterFunc registers f to run once the mocked time reaches now+d.
func (mc *MockTimerClocker) AfterFunc(d time.Duration, f func()) Stopper {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	t := &mockTimer{clock: mc, at: mc.now.Add(d), f: f}
	mc.timers = append(mc.timers, t)
	return t
}

// Advance moves the time forward and runs due timers in deadline order.
func (mc *MockTimerClocker) Advance(d time.Duration) {
	mc.mu.Lock()
	mc.now = mc.now.Add(d)
	var due []*mockTimer
	for _, t := range mc.timers {
		if !t.stopped && !t.fired && !t.at.After(mc.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	mc.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

// Armed returns the number of timers neither stopped nor fired.
func (mc *MockTimerClocker) Armed() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	n := 0
	for _, t := range mc.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Stop mocks *time.Timer Stop.
func (t *mockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// MockSender collects messages posted to the event loop.
type MockSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

// Send records msg.
func (ms *MockSender) Send(msg tea.Msg) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.msgs = append(ms.msgs, msg)
}

// Messages returns the recorded messages.
func (ms *MockSender) Messages() []tea.Msg {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]tea.Msg{}, ms.msgs...)
}

// sampleBooks returns the catalog served by the reference backend.
func sampleBooks() []Book {
	return []Book{
		{1, "To Kill a Mockingbird", "Harper Lee", "Fiction", "1960-07-11", "9780061120084", true},
		{2, "1984", "George Orwell", "Dystopian", "1949-06-08", "9780451524935", true},
		{3, "The Great Gatsby", "F. Scott Fitzgerald", "Classic", "1925-04-10", "9780743273565", false},
		{4, "Moby Dick", "Herman Melville", "Adventure", "1851-10-18", "9781503280786", true},
		{5, "Pride and Prejudice", "Jane Austen", "Romance", "1813-01-28", "9781503290563", false},
	}
}
