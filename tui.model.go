package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	inputStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// SearchModel is the bubbletea model mounting one SearchPane.
type SearchModel struct {
	logger      *zap.Logger
	pane        *SearchPane
	viewport    *Viewport
	input       textinput.Model
	opts        RenderOptions
	cellWidth   int
	sender      *programSender
	unsubscribe func()
	narrow      bool
	closed      bool
}

// NewSearchModel builds the interactive search screen.
func NewSearchModel(logger *zap.Logger, config *Config, clock TimerClocker, fetcher BookFetcher) *SearchModel {
	sender := &programSender{}
	ti := textinput.New()
	ti.Placeholder = "Search for a book"
	ti.Prompt = "🔍 "
	ti.Focus()

	m := &SearchModel{
		logger:    logger,
		viewport:  NewViewport(config.Viewport.Breakpoint, 0),
		input:     ti,
		opts:      RenderOptions{Breakpoint: config.Viewport.Breakpoint},
		cellWidth: config.Viewport.CellWidth,
		sender:    sender,
	}
	m.pane = NewSearchPane(logger, clock, fetcher, config.Search.Debounce, func(q string) {
		sender.Send(settledMsg{query: q})
	})
	return m
}

// Attach connects the model to the program running it.
func (m *SearchModel) Attach(s Sender) {
	m.sender.Attach(s)
}

// Pane exposes the underlying search pane.
func (m *SearchModel) Pane() *SearchPane {
	return m.pane
}

// Init mounts the screen: it subscribes to the viewport and schedules
// the initial unfiltered search.
func (m *SearchModel) Init() tea.Cmd {
	m.narrow = m.viewport.Narrow()
	m.unsubscribe = m.viewport.Subscribe(func(narrow bool) {
		m.narrow = narrow
		m.logger.Debug("layout switched", zap.Bool("viewport.narrow", narrow), zap.Int("viewport.width", m.viewport.Width()))
	})
	m.pane.OnQueryChange("")
	return textinput.Blink
}

// Update handles one event of the loop.
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.Close()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != m.pane.State().Query {
			m.pane.OnQueryChange(v)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.viewport.SetWidth(msg.Width * m.cellWidth)
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case settledMsg:
		req, ok := m.pane.OnDebounceSettle(msg.query)
		if !ok {
			return m, nil
		}
		pane := m.pane
		return m, func() tea.Msg {
			return fetchedMsg{result: pane.Execute(req)}
		}

	case fetchedMsg:
		m.pane.OnFetchResult(msg.result)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the whole screen.
func (m *SearchModel) View() string {
	if m.closed {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Book List"))
	b.WriteString("\n")
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(Render(m.pane.State(), m.viewport.Width(), m.opts))
	b.WriteString("\n")
	layout := LayoutTable
	if m.narrow {
		layout = LayoutCards
	}
	b.WriteString(helpStyle.Render("type to search • " + layout.String() + " view • esc to quit"))
	return b.String()
}

// Close unmounts the screen. It is safe to call more than once.
func (m *SearchModel) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.pane.Close()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// RunOnce performs a single search without debounce and returns the rendered
// result for width columns. It is used by the non-interactive mode.
func RunOnce(logger *zap.Logger, config *Config, fetcher BookFetcher, query string, width int) (string, SearchState) {
	pane := NewSearchPane(logger, NewClock(config.IsProduction), fetcher, time.Duration(0), func(string) {})
	defer pane.Close()
	pane.state.Query = query
	req, _ := pane.OnDebounceSettle(query)
	pane.OnFetchResult(pane.Execute(req))
	state := pane.State()
	return Render(state, width*config.Viewport.CellWidth, RenderOptions{Breakpoint: config.Viewport.Breakpoint}), state
}
