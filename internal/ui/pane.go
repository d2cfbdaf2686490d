package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/TimelordUK/cpg/internal/config"
	"github.com/TimelordUK/cpg/internal/pager"
)

const (
	searchBarHeight = 1
	statusBarHeight = 1
)

// styles holds the lipgloss styles for the fixed panes
type styles struct {
	context   lipgloss.Style
	status    lipgloss.Style
	search    lipgloss.Style
	notice    lipgloss.Style
	streaming lipgloss.Style
}

func newStyles(theme config.ThemeConfig) styles {
	return styles{
		context: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(theme.ContextBorder)),
		status: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.StatusBar)).
			Foreground(lipgloss.Color(theme.StatusBarText)),
		search: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.SearchMatch)),
		notice: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.StatusBar)).
			Foreground(lipgloss.Color(theme.Notice)).
			Bold(true),
		streaming: lipgloss.NewStyle().
			Background(lipgloss.Color(theme.StatusBar)).
			Foreground(lipgloss.Color(theme.SearchMatch)),
	}
}

// layout is the vertical split of the screen for one cycle
type layout struct {
	context int // rows of context lines, excluding the border
	body    int
	search  int
}

// contextPaneHeight returns the rows used by the context pane, border
// included, for a record of n lines. limit caps the whole pane.
func contextPaneHeight(n, limit int) int {
	if n == 0 || limit < 2 {
		return 0
	}
	return min(n, limit-1) + 1
}

// computeLayout splits height between the context pane, the body, the
// search bar and the status bar. The body always keeps at least one row.
func computeLayout(height, contextLines, contextLimit int, inSearch bool) layout {
	l := layout{}
	if inSearch {
		l.search = searchBarHeight
	}

	pane := contextPaneHeight(contextLines, contextLimit)
	rest := height - l.search - statusBarHeight
	if pane > rest-1 {
		pane = max(rest-1, 0)
	}
	if pane == 1 {
		// a border with nothing above it
		pane = 0
	}
	if pane > 0 {
		l.context = pane - 1
	}

	l.body = max(rest-pane, 1)
	return l
}

// renderContext draws the record header above the body
func (s styles) renderContext(lines []string, rows, width int) string {
	if rows == 0 || len(lines) == 0 {
		return ""
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}

	shown := make([]string, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if width > 0 {
			line = ansi.Truncate(line, width, "")
		}
		shown[i] = line
	}

	style := s.context
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(shown, "\n"))
}

// renderSearchBar draws the query line for the two search states
func (s styles) renderSearchBar(state pager.State, input string, width int) string {
	var bar string
	switch st := state.(type) {
	case pager.SearchInput:
		bar = input
	case pager.SearchActive:
		bar = s.search.Render("/"+st.Query) + "  (n/N: next/prev, esc: back)"
	default:
		return ""
	}
	if width > 0 {
		bar = ansi.Truncate(bar, width, "")
	}
	return bar
}

// renderStatus draws the bottom line: name, position, stream state and
// the last notice
func (s styles) renderStatus(name string, f pager.Frame, width int) string {
	position := fmt.Sprintf("L%d/%d", min(f.First+1, f.Total), f.Total)

	stream := s.streaming.Render(" [streaming]")
	if f.Complete {
		stream = s.status.Render(" [complete]")
	}

	left := s.status.Render(fmt.Sprintf(" %s  %s", name, position)) + stream
	if f.Notice != "" {
		left += s.notice.Render("  " + f.Notice)
	}

	pad := width - lipgloss.Width(left)
	if pad > 0 {
		left += s.status.Render(strings.Repeat(" ", pad))
	}
	if width > 0 {
		left = ansi.Truncate(left, width, "")
	}
	return left
}
