package ui

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TimelordUK/cpg/internal/config"
	"github.com/TimelordUK/cpg/internal/pager"
)

// wheelLines is how far one mouse wheel notch scrolls
const wheelLines = 3

// Options configures the application model
type Options struct {
	Config *config.Config
	Name   string
	Logger *slog.Logger

	// Initial screen size, used until the first WindowSizeMsg
	Width  int
	Height int
}

// Model is the main application model. It turns terminal messages into
// pager events and draws the frame the controller computes.
type Model struct {
	controller  *pager.Controller
	keys        keyMap
	searchInput textinput.Model
	styles      styles
	cfg         *config.Config
	logger      *slog.Logger

	width  int
	height int
	layout layout
	frame  pager.Frame

	// Status
	name string
	err  error
}

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// NewModel creates a new application model around a started controller
func NewModel(controller *pager.Controller, opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "Search..."
	ti.CharLimit = 256

	m := &Model{
		controller:  controller,
		keys:        newKeyMap(cfg.Keybindings),
		searchInput: ti,
		styles:      newStyles(cfg.Theme),
		cfg:         cfg,
		logger:      logger,
		width:       opts.Width,
		height:      opts.Height,
		name:        opts.Name,
	}
	m.err = m.cycle()
	return m
}

// Err returns the error that ended the session, if any
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	if m.err != nil {
		return tea.Quit
	}
	return tickCmd(m.cfg.Stream.RefreshInterval())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		var quit bool
		quit, cmd = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("window resized", "width", msg.Width, "height", msg.Height)

	case tickMsg:
		cmd = tickCmd(m.cfg.Stream.RefreshInterval())
	}

	if err := m.cycle(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m, cmd
}

// cycle drains the ingestion channel, lays out the screen for the
// record under the cursor and computes the next frame
func (m *Model) cycle() error {
	if err := m.controller.Drain(); err != nil {
		return err
	}

	context := m.controller.Context()
	m.layout = computeLayout(m.height, len(context), m.cfg.Display.ContextHeight, pager.InSearch(m.controller.State()))
	m.controller.Viewport().SetSize(m.width, m.layout.body)

	frame, err := m.controller.Frame()
	if err != nil {
		return err
	}
	m.frame = frame
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return true, nil
	}

	switch m.controller.State().(type) {
	case pager.Paging:
		k := m.keys.pagingKey(msg)
		if k == pager.KeySearch {
			m.searchInput.SetValue("")
			m.controller.Handle(pager.Event{Key: k})
			return false, m.searchInput.Focus()
		}
		return m.controller.Handle(pager.Event{Key: k}), nil

	case pager.SearchInput:
		return false, m.handleSearchKey(msg)

	case pager.SearchActive:
		return m.controller.Handle(pager.Event{Key: m.keys.activeKey(msg)}), nil
	}
	return false, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searchInput.Blur()
		m.controller.Handle(pager.Event{Key: pager.KeyEscape})
		return nil

	case key.Matches(msg, m.keys.Confirm):
		m.searchInput.Blur()
		m.controller.Handle(pager.Event{Key: pager.KeyEnter})
		return nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if query := m.searchInput.Value(); query != before {
		m.controller.Handle(pager.Event{Key: pager.KeyEdit, Query: query})
	}

	// a rejected query drops back to the pager
	if !pager.InSearch(m.controller.State()) {
		m.searchInput.Blur()
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if _, ok := m.controller.State().(pager.Paging); !ok {
		return
	}
	if msg.Action != tea.MouseActionPress {
		return
	}

	var k pager.Key
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		k = pager.KeyUp
	case tea.MouseButtonWheelDown:
		k = pager.KeyDown
	default:
		return
	}
	for i := 0; i < wheelLines; i++ {
		m.controller.Handle(pager.Event{Key: k})
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.err != nil {
		return ""
	}

	var builder strings.Builder

	// Record header
	if context := m.styles.renderContext(m.frame.Context, m.layout.context, m.width); context != "" {
		builder.WriteString(context)
		builder.WriteString("\n")
	}

	// Main content
	builder.WriteString(m.controller.Viewport().Render(m.frame.Lines, m.frame.First, m.frame.Total))
	builder.WriteString("\n")

	if m.layout.search > 0 {
		builder.WriteString(m.styles.renderSearchBar(m.frame.State, m.searchInput.View(), m.width))
		builder.WriteString("\n")
	}

	builder.WriteString(m.styles.renderStatus(m.name, m.frame, m.width))
	return builder.String()
}
