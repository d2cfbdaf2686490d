package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/TimelordUK/cpg/internal/render"
)

// Viewport manages the visible portion of the line buffer.
// It only knows the cursor and its own size; the caller hands it the
// total line count and the visible lines.
type Viewport struct {
	renderer render.Renderer

	// Dimensions
	width  int
	height int

	// First visible line
	cursor int

	// Styling
	lineNumberStyle lipgloss.Style
	highlightStyle  lipgloss.Style
	fillerStyle     lipgloss.Style

	showLineNumbers bool

	// Highlighted line (buffer index, -1 for none)
	highlightedLine int
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:           width,
		height:          height,
		showLineNumbers: false,
		lineNumberStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		highlightStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		fillerStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		renderer:        render.NewPlainRenderer(),
		highlightedLine: -1,
	}
}

// SetRenderer sets the line renderer
func (v *Viewport) SetRenderer(r render.Renderer) {
	v.renderer = r
}

// SetStyles sets the line number and highlight colours
func (v *Viewport) SetStyles(lineNumbers, highlight string) {
	v.lineNumberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(lineNumbers))
	v.fillerStyle = v.lineNumberStyle
	v.highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(highlight)).Bold(true)
}

// SetShowLineNumbers toggles line numbers
func (v *Viewport) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
}

// SetSize updates viewport dimensions. The cursor is left alone; it is
// clamped the next time it moves forward.
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	if height < 1 {
		height = 1
	}
	v.height = height
}

// Height returns the number of visible lines
func (v *Viewport) Height() int {
	return v.height
}

// CurrentLine returns the first visible line
func (v *Viewport) CurrentLine() int {
	return v.cursor
}

// ScrollDown scrolls down by n lines
func (v *Viewport) ScrollDown(n, total int) {
	v.cursor = Increment(v.cursor, n, total, v.height)
}

// ScrollUp scrolls up by n lines
func (v *Viewport) ScrollUp(n int) {
	v.cursor = Decrement(v.cursor, n)
}

// PageDown scrolls down by one page
func (v *Viewport) PageDown(total int) {
	v.ScrollDown(v.height, total)
}

// PageUp scrolls up by one page
func (v *Viewport) PageUp() {
	v.ScrollUp(v.height)
}

// GotoTop scrolls to the beginning
func (v *Viewport) GotoTop() {
	v.cursor = 0
}

// GotoBottom scrolls to the last full page
func (v *Viewport) GotoBottom(total int) {
	v.cursor = MaxCursor(total, v.height)
}

// GotoLine puts line at the top without clamping it to the last page
func (v *Viewport) GotoLine(line int) {
	if line < 0 {
		line = 0
	}
	v.cursor = line
}

// Window returns the visible range for a buffer of total lines
func (v *Viewport) Window(total int) (start, end int, err error) {
	return Window(total, v.cursor, v.height)
}

// SetHighlightedLine sets which buffer index to highlight (-1 for none)
func (v *Viewport) SetHighlightedLine(index int) {
	v.highlightedLine = index
}

// ClearHighlight removes any line highlight
func (v *Viewport) ClearHighlight() {
	v.highlightedLine = -1
}

// Render returns the visible lines as a string. first is the buffer index
// of lines[0] and total the buffer length, used for the gutter width.
func (v *Viewport) Render(lines []string, first, total int) string {
	var builder strings.Builder
	lineNumWidth := len(fmt.Sprintf("%d", total))

	availableWidth := v.width
	if v.showLineNumbers {
		availableWidth -= lineNumWidth + 1
	}

	for i, line := range lines {
		if i > 0 {
			builder.WriteString("\n")
		}

		index := first + i
		isHighlighted := v.highlightedLine >= 0 && index == v.highlightedLine

		if v.showLineNumbers {
			numStr := fmt.Sprintf("%*d ", lineNumWidth, index+1)
			if isHighlighted {
				builder.WriteString(v.highlightStyle.Render(numStr))
			} else {
				builder.WriteString(v.lineNumberStyle.Render(numStr))
			}
		}

		line = strings.TrimSuffix(line, "\r")
		var content string
		if isHighlighted {
			// the search match replaces syntax colours
			content = v.highlightStyle.Render(line)
		} else {
			content = v.renderer.Render(line)
		}
		if availableWidth > 0 {
			content = ansi.Truncate(content, availableWidth, "")
		}
		builder.WriteString(content)
	}

	// Pad with filler lines
	for i := len(lines); i < v.height; i++ {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(v.fillerStyle.Render("~"))
	}

	return builder.String()
}
