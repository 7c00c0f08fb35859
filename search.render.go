package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	LoadingMessage = "Loading..."
	EmptyMessage   = "No books found"

	BookIcon         = "📖"
	AvailableGlyph   = "✔"
	UnavailableGlyph = "✘"
)

// Layout is the arrangement used to display results.
type Layout int

const (
	LayoutTable Layout = iota
	LayoutCards
)

func (l Layout) String() string {
	if l == LayoutCards {
		return "cards"
	}
	return "table"
}

// RenderOptions holds the presentation parameters of Render.
type RenderOptions struct {
	Breakpoint int // logical units, cards at or below
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	availStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	unavailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	cardTitleLine = lipgloss.NewStyle().Bold(true)
)

// SelectLayout picks cards for narrow widths and a table otherwise.
func SelectLayout(width int, opts RenderOptions) Layout {
	if IsNarrowWidth(width, opts.Breakpoint) {
		return LayoutCards
	}
	return LayoutTable
}

// Render draws the results area for state at width logical units.
// It has no side effects.
func Render(state SearchState, width int, opts RenderOptions) string {
	var sections []string

	if state.Loading {
		sections = append(sections, loadingStyle.Render(LoadingMessage))
	}
	if state.Err != "" {
		sections = append(sections, errorStyle.Render(state.Err))
	}

	switch {
	case len(state.Books) > 0 && SelectLayout(width, opts) == LayoutCards:
		sections = append(sections, renderCards(state.Books))
	case len(state.Books) > 0:
		sections = append(sections, renderTable(state.Books))
	case !state.Loading && state.Err == "":
		sections = append(sections, mutedStyle.Render(EmptyMessage))
	}

	return strings.Join(sections, "\n")
}

// AvailabilityLabel returns the glyph and its wording for available.
func AvailabilityLabel(available bool) string {
	if available {
		return AvailableGlyph + " Available"
	}
	return UnavailableGlyph + " Unavailable"
}

func availabilityGlyph(available bool) string {
	if available {
		return availStyle.Render(AvailableGlyph)
	}
	return unavailStyle.Render(UnavailableGlyph)
}

// tableCellStyle styles one table cell. Row 0 is the header, data rows start at 1.
func tableCellStyle(row, _ int) lipgloss.Style {
	if row == 0 {
		return headerStyle.Padding(0, 1)
	}
	return lipgloss.NewStyle().Padding(0, 1)
}

func renderTable(books []Book) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("", "Title", "Author", "Genre", "Published", "ISBN", "").
		StyleFunc(tableCellStyle)

	for _, b := range books {
		t.Row(
			BookIcon,
			b.Title,
			b.Author,
			b.Genre,
			b.PublishedDate,
			b.ISBN,
			availabilityGlyph(b.Availability),
		)
	}
	return t.String()
}

func renderCards(books []Book) string {
	cards := make([]string, 0, len(books))
	for _, b := range books {
		status := availStyle.Render(AvailabilityLabel(true))
		if !b.Availability {
			status = unavailStyle.Render(AvailabilityLabel(false))
		}
		lines := []string{
			cardTitleLine.Render(BookIcon+" "+b.Title) + "  " + status,
			b.Author,
			mutedStyle.Render("Genre: ") + b.Genre,
			mutedStyle.Render("Published: ") + b.PublishedDate,
			mutedStyle.Render("ISBN: ") + b.ISBN,
		}
		cards = append(cards, cardStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}
