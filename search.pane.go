package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// SearchState is the whole UI state of a search pane.
type SearchState struct {
	Query   string
	Books   []Book
	Loading bool
	Err     string
}

// Loaded reports whether a fetch already completed successfully.
// An empty result is loaded, a fresh state is not.
func (s SearchState) Loaded() bool {
	return s.Books != nil
}

// FetchRequest is one issued search. Seq orders requests by issue time.
type FetchRequest struct {
	Seq   uint64
	Query string
	ctx   context.Context
}

// FetchResult carries the settlement of a FetchRequest.
type FetchResult struct {
	Seq   uint64
	Query string
	Books []Book
	Err   error
}

// Outcome tells what OnFetchResult did with a result.
type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeStale           // a newer request was issued since
	OutcomeClosed          // the pane was closed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeStale:
		return "stale"
	case OutcomeClosed:
		return "closed"
	}
	return "unknown"
}

// SearchPane bridges typed queries to the catalog search. All methods but
// Execute must be called from a single event loop goroutine.
type SearchPane struct {
	logger    *zap.Logger
	fetcher   BookFetcher
	debouncer *Debouncer
	delay     time.Duration
	state     SearchState
	seq       uint64
	cancel    context.CancelFunc
	closed    bool
	stats     *SearchStats
}

// NewSearchPane provides a mounted pane. settle receives the debounced
// query and must hand it back to OnDebounceSettle on the event loop.
func NewSearchPane(logger *zap.Logger, clock TimerClocker, fetcher BookFetcher, delay time.Duration, settle func(string)) *SearchPane {
	return &SearchPane{
		logger:    logger,
		fetcher:   fetcher,
		debouncer: NewDebouncer(clock, settle),
		delay:     delay,
		stats:     &SearchStats{},
	}
}

// State returns a copy of the current state.
func (sp *SearchPane) State() SearchState {
	s := sp.state
	if s.Books != nil {
		s.Books = append([]Book{}, s.Books...)
	}
	return s
}

// Stats returns the pane counters.
func (sp *SearchPane) Stats() *SearchStats {
	return sp.stats
}

// OnQueryChange records the typed text and schedules a search.
func (sp *SearchPane) OnQueryChange(text string) {
	if sp.closed {
		return
	}
	sp.state.Query = text
	sp.debouncer.Schedule(text, sp.delay)
}

// OnDebounceSettle starts a new search for text. The previous request
// context is cancelled, its result will be discarded anyway.
func (sp *SearchPane) OnDebounceSettle(text string) (FetchRequest, bool) {
	if sp.closed {
		return FetchRequest{}, false
	}
	if sp.cancel != nil {
		sp.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	sp.cancel = cancel
	sp.seq++
	sp.state.Loading = true
	sp.state.Err = ""
	sp.stats.issued.Add(1)
	sp.logger.Debug("search issued", zap.Uint64("search.seq", sp.seq), zap.String("search.query", text))
	return FetchRequest{Seq: sp.seq, Query: text, ctx: ctx}, true
}

// Execute performs the remote search. It is safe to call off the event loop.
func (sp *SearchPane) Execute(req FetchRequest) FetchResult {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	books, err := sp.fetcher.Search(ctx, req.Query)
	return FetchResult{Seq: req.Seq, Query: req.Query, Books: books, Err: err}
}

// OnFetchResult applies res if it answers the latest issued request.
func (sp *SearchPane) OnFetchResult(res FetchResult) Outcome {
	if sp.closed {
		sp.stats.suppressed.Add(1)
		return OutcomeClosed
	}
	if res.Seq != sp.seq {
		sp.stats.stale.Add(1)
		sp.logger.Debug("search result discarded",
			zap.Uint64("search.seq", res.Seq),
			zap.Uint64("search.latest", sp.seq),
			zap.String("search.query", res.Query),
		)
		return OutcomeStale
	}

	sp.state.Loading = false
	if sp.cancel != nil {
		sp.cancel()
		sp.cancel = nil
	}
	if res.Err != nil {
		sp.state.Err = FetchFailedMessage
		sp.stats.failed.Add(1)
		level := zap.ErrorLevel
		if errors.Is(res.Err, context.Canceled) {
			level = zap.DebugLevel
		}
		sp.logger.Log(level, "search failed",
			zap.Uint64("search.seq", res.Seq),
			zap.String("search.query", res.Query),
			zap.Error(res.Err),
		)
		return OutcomeApplied
	}

	books := res.Books
	if books == nil {
		books = []Book{}
	}
	sp.state.Books = books
	sp.stats.applied.Add(1)
	sp.logger.Info("search completed",
		zap.Uint64("search.seq", res.Seq),
		zap.String("search.query", res.Query),
		zap.Int("search.count", len(books)),
	)
	return OutcomeApplied
}

// Close unmounts the pane. Pending timers and in-flight requests
// are abandoned and no later call mutates the state.
func (sp *SearchPane) Close() {
	if sp.closed {
		return
	}
	sp.closed = true
	sp.debouncer.Cancel()
	if sp.cancel != nil {
		sp.cancel()
		sp.cancel = nil
	}
	sp.logger.Debug("search pane closed", sp.stats.Fields()...)
}
