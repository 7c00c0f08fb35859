package main

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// SearchStats counts search outcomes for the session logs.
type SearchStats struct {
	issued     atomic.Uint64
	applied    atomic.Uint64
	failed     atomic.Uint64
	stale      atomic.Uint64
	suppressed atomic.Uint64
}

func (s *SearchStats) Issued() uint64     { return s.issued.Load() }
func (s *SearchStats) Applied() uint64    { return s.applied.Load() }
func (s *SearchStats) Failed() uint64     { return s.failed.Load() }
func (s *SearchStats) Stale() uint64      { return s.stale.Load() }
func (s *SearchStats) Suppressed() uint64 { return s.suppressed.Load() }

// Fields exposes the counters as log fields.
func (s *SearchStats) Fields() []zap.Field {
	return []zap.Field{
		zap.Uint64("stats.issued", s.Issued()),
		zap.Uint64("stats.applied", s.Applied()),
		zap.Uint64("stats.failed", s.Failed()),
		zap.Uint64("stats.stale", s.Stale()),
		zap.Uint64("stats.suppressed", s.Suppressed()),
	}
}
