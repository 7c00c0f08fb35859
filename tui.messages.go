package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Message types posted to the bubbletea event loop.

type settledMsg struct {
	query string
}

type fetchedMsg struct {
	result FetchResult
}

// Sender is the part of *tea.Program used to post messages.
type Sender interface {
	Send(msg tea.Msg)
}

// programSender forwards messages to a program attached after the model
// was built. Messages sent before Attach are dropped.
type programSender struct {
	mu     sync.RWMutex
	target Sender
}

func (ps *programSender) Attach(s Sender) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.target = s
}

func (ps *programSender) Send(msg tea.Msg) {
	ps.mu.RLock()
	target := ps.target
	ps.mu.RUnlock()
	if target != nil {
		target.Send(msg)
	}
}
