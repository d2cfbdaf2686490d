package pager

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/TimelordUK/cpg/internal/record"
	"github.com/TimelordUK/cpg/internal/search"
	"github.com/TimelordUK/cpg/internal/slice"
	"github.com/TimelordUK/cpg/internal/source"
	"github.com/TimelordUK/cpg/internal/view"
)

// ErrStartupTimeout is returned when the first batch does not arrive in time
var ErrStartupTimeout = errors.New("timeout while waiting for input stream")

// Options configures a Controller
type Options struct {
	// Name identifies the input in exported file names
	Name   string
	Slicer *slice.Slicer
	Logger *slog.Logger
}

// Frame is everything needed to draw one cycle
type Frame struct {
	State State

	// Visible lines, starting at buffer index First
	Lines []string
	First int
	Total int

	// Lines of the record enclosing the cursor, nil when there is none
	Context  []string
	Boundary record.Boundary

	Complete bool
	Notice   string
}

// Controller is the interaction state machine. It owns the buffer and the
// interaction state and never touches the terminal.
type Controller struct {
	results  <-chan source.Result
	buffer   *source.Buffer
	finder   *record.Finder
	viewport *view.Viewport
	slicer   *slice.Slicer
	name     string
	logger   *slog.Logger

	state    State
	complete bool
	notice   string
}

// New creates a controller consuming results
func New(results <-chan source.Result, finder *record.Finder, viewport *view.Viewport, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	slicer := opts.Slicer
	if slicer == nil {
		slicer = slice.NewSlicer()
	}

	return &Controller{
		results:  results,
		buffer:   source.NewBuffer(),
		finder:   finder,
		viewport: viewport,
		slicer:   slicer,
		name:     opts.Name,
		logger:   logger,
		state:    Paging{},
	}
}

// Start blocks for the first batch, up to timeout. A timeout of zero or
// less takes whatever is already waiting and returns.
func (c *Controller) Start(timeout time.Duration) error {
	if timeout <= 0 {
		return c.Drain()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res, ok := <-c.results:
		return c.accept(res, ok)
	case <-timer.C:
		return fmt.Errorf("%w after %v", ErrStartupTimeout, timeout)
	}
}

// Drain appends every batch that is already waiting, without blocking.
// A closed channel means the stream is complete. A read error from the
// ingestion side is returned and ends the session.
func (c *Controller) Drain() error {
	for {
		select {
		case res, ok := <-c.results:
			if err := c.accept(res, ok); err != nil {
				return err
			}
			if !ok {
				return nil
			}
		default:
			return nil
		}
	}
}

func (c *Controller) accept(res source.Result, ok bool) error {
	if !ok {
		if !c.complete {
			c.logger.Debug("input stream complete", "lines", c.buffer.LineCount())
		}
		c.complete = true
		// a nil channel is never ready, so later drains fall through
		c.results = nil
		return nil
	}
	if res.Err != nil {
		c.logger.Warn("input stream failed", "error", res.Err)
		return res.Err
	}
	c.buffer.Append(res.Lines...)
	c.logger.Debug("got more lines", "batch", len(res.Lines), "total", c.buffer.LineCount())
	return nil
}

// Viewport returns the viewport holding the cursor
func (c *Controller) Viewport() *view.Viewport {
	return c.viewport
}

// Buffer returns the line buffer
func (c *Controller) Buffer() *source.Buffer {
	return c.buffer
}

// State returns the current interaction state
func (c *Controller) State() State {
	return c.state
}

// Complete reports whether the input has been fully read
func (c *Controller) Complete() bool {
	return c.complete
}

// Context returns the lines of the record enclosing the cursor
func (c *Controller) Context() []string {
	return c.finder.Context(c.buffer.Lines(), c.viewport.CurrentLine())
}

// Frame computes the record context and the visible slice
func (c *Controller) Frame() (Frame, error) {
	lines := c.buffer.Lines()
	cursor := c.viewport.CurrentLine()

	f := Frame{
		State:    c.state,
		First:    cursor,
		Total:    len(lines),
		Complete: c.complete,
		Notice:   c.notice,
	}

	if b, ok := c.finder.FindRange(lines, cursor); ok && b.Start >= 0 && b.End >= b.Start && b.End < len(lines) {
		f.Context = lines[b.Start : b.End+1]
		f.Boundary = b
	}

	start, end, err := c.viewport.Window(len(lines))
	if err != nil {
		return Frame{}, err
	}
	f.Lines = lines[start:end]
	return f, nil
}

// Handle applies one event and reports whether the session should end
func (c *Controller) Handle(ev Event) (quit bool) {
	c.notice = ""
	prev := c.state

	var next State
	switch s := c.state.(type) {
	case Paging:
		next, quit = c.handlePager(ev)
	case SearchInput:
		next = c.handleSearchInput(s, ev)
	case SearchActive:
		next = c.handleSearchActive(s, ev)
	default:
		panic(fmt.Sprintf("pager: unhandled state %T", s))
	}

	if next.Name() != prev.Name() {
		c.logger.Debug("state change", "from", prev.Name(), "to", next.Name())
	}
	c.state = next
	return quit
}

func (c *Controller) handlePager(ev Event) (State, bool) {
	total := c.buffer.LineCount()

	switch ev.Key {
	case KeyQuit:
		return Paging{}, true
	case KeyDown:
		c.viewport.ScrollDown(1, total)
	case KeyUp:
		c.viewport.ScrollUp(1)
	case KeyPageDown:
		c.viewport.PageDown(total)
	case KeyPageUp:
		c.viewport.PageUp()
	case KeyTop:
		c.viewport.GotoTop()
	case KeyBottom:
		c.viewport.GotoBottom(total)
	case KeySearch:
		return SearchInput{Anchor: c.viewport.CurrentLine()}, false
	case KeyExport:
		c.export()
	}
	return Paging{}, false
}

func (c *Controller) handleSearchInput(s SearchInput, ev Event) State {
	switch ev.Key {
	case KeyEscape:
		c.viewport.ClearHighlight()
		return Paging{}
	case KeyEnter:
		return SearchActive{Query: s.Query}
	case KeyEdit:
		s.Query = ev.Query
		if s.Query == "" {
			c.viewport.GotoLine(s.Anchor)
			c.viewport.ClearHighlight()
			return s
		}
		m, ok := c.compile(s.Query)
		if !ok {
			return Paging{}
		}
		lines := c.buffer.Lines()
		if pos := m.Forward(lines, s.Anchor); pos < len(lines) && m.Match(lines[pos]) {
			c.jump(pos)
		}
		return s
	}
	return s
}

func (c *Controller) handleSearchActive(s SearchActive, ev Event) State {
	switch ev.Key {
	case KeyEscape, KeyQuit:
		c.viewport.ClearHighlight()
		return Paging{}
	case KeyNext, KeyPrev:
		// an empty query matches every line; navigation stays off
		if s.Query == "" {
			return s
		}
		m, ok := c.compile(s.Query)
		if !ok {
			return Paging{}
		}
		lines := c.buffer.Lines()
		cursor := c.viewport.CurrentLine()
		if ev.Key == KeyNext {
			if pos := m.Forward(lines, cursor+1); pos < len(lines) && m.Match(lines[pos]) {
				c.jump(pos)
			}
		} else if pos := m.Backward(lines, cursor); pos != cursor {
			c.jump(pos)
		}
	}
	return s
}

// compile builds a matcher; a failure is reported and not fatal
func (c *Controller) compile(query string) (*search.Matcher, bool) {
	m, err := search.Compile(query)
	if err != nil {
		c.logger.Warn("search failed", "query", query, "error", err)
		c.notice = err.Error()
		c.viewport.ClearHighlight()
		return nil, false
	}
	return m, true
}

func (c *Controller) jump(pos int) {
	c.viewport.GotoLine(pos)
	c.viewport.SetHighlightedLine(pos)
}

// export writes the record under the cursor, or the visible lines when
// there is no record, to a file
func (c *Controller) export() {
	lines := c.buffer.Lines()
	start, end, err := c.viewport.Window(len(lines))
	if b, ok := c.finder.Record(lines, c.viewport.CurrentLine()); ok {
		start, end, err = b.Start, b.Start+b.Len(), nil
	}
	if err != nil {
		c.notice = fmt.Sprintf("export failed: %v", err)
		return
	}

	info, err := c.slicer.SliceRange(lines, c.name, start, end)
	if err != nil {
		c.logger.Warn("export failed", "error", err)
		c.notice = fmt.Sprintf("export failed: %v", err)
		return
	}
	c.logger.Debug("exported lines", "path", info.Path, "lines", info.Lines())
	c.notice = fmt.Sprintf("wrote %d lines to %s", info.Lines(), info.Path)
}
