package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	config := &Config{}
	require.NoError(t, InitConfig(config, "", "", ""))
	return config
}

// newTestModel returns a mounted model wired to mocked time and event loop.
func newTestModel(t *testing.T, fetcher BookFetcher) (*SearchModel, *MockTimerClocker, *MockSender) {
	t.Helper()
	clock := NewMockTimerClocker()
	sender := &MockSender{}
	m := NewSearchModel(zap.NewNop(), newTestConfig(t), clock, fetcher)
	m.Attach(sender)
	require.NotNil(t, m.Init())
	return m, clock, sender
}

// settle runs the pending debounce and feeds the resulting messages to the model.
func settle(t *testing.T, m *SearchModel, clock *MockTimerClocker, sender *MockSender) {
	t.Helper()
	before := len(sender.Messages())
	clock.Advance(DefaultDebounce)
	msgs := sender.Messages()
	require.Greater(t, len(msgs), before, "debounce did not settle")
	_, cmd := m.Update(msgs[len(msgs)-1])
	require.NotNil(t, cmd)
	_, cmd = m.Update(cmd())
	assert.Nil(t, cmd)
}

// TestSearchModel_InitialSearch ensures mounting schedules an unfiltered search.
func TestSearchModel_InitialSearch(t *testing.T) {
	fetcher := &MockBookFetcher{
		SearchFunc: func(context.Context, string) ([]Book, error) { return sampleBooks(), nil },
	}
	m, clock, sender := newTestModel(t, fetcher)

	assert.Empty(t, sender.Messages(), "search waits for the debounce delay")
	clock.Advance(DefaultDebounce)
	msgs := sender.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, settledMsg{query: ""}, msgs[0])

	_, cmd := m.Update(msgs[0])
	require.NotNil(t, cmd)
	assert.True(t, m.Pane().State().Loading)
	assert.Contains(t, m.View(), LoadingMessage)

	fetched := cmd()
	require.IsType(t, fetchedMsg{}, fetched)
	m.Update(fetched)

	assert.Equal(t, []string{""}, fetcher.Queries())
	state := m.Pane().State()
	assert.False(t, state.Loading)
	assert.Len(t, state.Books, len(sampleBooks()))
	assert.Contains(t, m.View(), "Pride and Prejudice")
	assert.Contains(t, m.View(), "Book List")
}

// TestSearchModel_Typing ensures keystrokes update the query and debounce the search.
func TestSearchModel_Typing(t *testing.T) {
	fetcher := &MockBookFetcher{}
	m, clock, sender := newTestModel(t, fetcher)

	for _, r := range "dune" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "dune", m.Pane().State().Query)

	settle(t, m, clock, sender)
	assert.Equal(t, []string{"dune"}, fetcher.Queries(), "the burst yields a single search")
}

// TestSearchModel_Resize ensures the layout follows the terminal width.
func TestSearchModel_Resize(t *testing.T) {
	fetcher := &MockBookFetcher{
		SearchFunc: func(context.Context, string) ([]Book, error) { return sampleBooks(), nil },
	}
	m, clock, sender := newTestModel(t, fetcher)
	settle(t, m, clock, sender)

	m.Update(tea.WindowSizeMsg{Width: 150, Height: 40})
	assert.False(t, m.viewport.Narrow())
	view := m.View()
	assert.Contains(t, view, "table view")
	assert.Contains(t, view, "Published")

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 40})
	assert.True(t, m.viewport.Narrow())
	view = m.View()
	assert.Contains(t, view, "cards view")
	assert.Contains(t, view, AvailabilityLabel(false))
}

// TestSearchModel_Quit ensures esc unmounts the pane before quitting.
func TestSearchModel_Quit(t *testing.T) {
	m, clock, sender := newTestModel(t, &MockBookFetcher{})
	assert.Equal(t, 1, m.viewport.Subscribers())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, m.viewport.Subscribers())
	assert.Empty(t, m.View())

	clock.Advance(DefaultDebounce)
	assert.Empty(t, sender.Messages(), "pending search is cancelled")

	_, cmd = m.Update(fetchedMsg{result: FetchResult{Seq: 1, Books: sampleBooks()}})
	assert.Nil(t, cmd)
	assert.False(t, m.Pane().State().Loaded())
	assert.NotPanics(t, m.Close)
}

// TestProgramSender ensures messages before Attach are dropped.
func TestProgramSender(t *testing.T) {
	ps := &programSender{}
	assert.NotPanics(t, func() { ps.Send(settledMsg{query: "lost"}) })

	ms := &MockSender{}
	ps.Attach(ms)
	ps.Send(settledMsg{query: "kept"})
	assert.Equal(t, []tea.Msg{settledMsg{query: "kept"}}, ms.Messages())
}

// TestRunOnce ensures the one-shot path renders without waiting.
func TestRunOnce(t *testing.T) {
	fetcher := &MockBookFetcher{
		SearchFunc: func(_ context.Context, q string) ([]Book, error) {
			var out []Book
			for _, b := range sampleBooks() {
				if strings.Contains(strings.ToLower(b.Title), q) {
					out = append(out, b)
				}
			}
			return out, nil
		},
	}
	config := newTestConfig(t)

	view, state := RunOnce(zap.NewNop(), config, fetcher, "the", 150)
	assert.Equal(t, "the", state.Query)
	require.Len(t, state.Books, 1)
	assert.Equal(t, "The Great Gatsby", state.Books[0].Title)
	assert.Contains(t, view, "The Great Gatsby")
	assert.NotContains(t, view, "Moby Dick")

	view, state = RunOnce(zap.NewNop(), config, fetcher, "zzz", 150)
	assert.True(t, state.Loaded())
	assert.Contains(t, view, EmptyMessage)
}

// TestApp_ServeOneShot ensures the one-shot mode prints and reports failures.
func TestApp_ServeOneShot(t *testing.T) {
	out := &bytes.Buffer{}
	fail := false
	app := &App{
		logger: zap.NewNop(),
		config: newTestConfig(t),
		options: Options{
			OneShot: true,
			Query:   "",
			Width:   60,
		},
		fetcher: &MockBookFetcher{
			SearchFunc: func(context.Context, string) ([]Book, error) {
				if fail {
					return nil, errors.New("connection refused")
				}
				return sampleBooks(), nil
			},
		},
		out: out,
	}

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, app.Serve(cancel)())
	assert.Error(t, ctx.Err(), "serve releases the stopper")
	assert.Contains(t, out.String(), AvailabilityLabel(true))

	out.Reset()
	fail = true
	_, cancel = context.WithCancel(context.Background())
	assert.ErrorIs(t, app.Serve(cancel)(), ErrFetchBooks)
	assert.Contains(t, out.String(), FetchFailedMessage)
}

// TestApp_Stop ensures the stopper returns once the group is done.
func TestApp_Stop(t *testing.T) {
	app := &App{logger: zap.NewNop()}
	nCtx, nCancel := context.WithCancel(context.Background())
	gCtx, gCancel := context.WithCancel(nCtx)
	gCancel()
	assert.NoError(t, app.Stop(nCtx, gCtx)())

	nCancel()
	assert.NoError(t, app.Stop(nCtx, gCtx)(), "no program to quit in one-shot mode")
}
