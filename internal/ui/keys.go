package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TimelordUK/cpg/internal/config"
	"github.com/TimelordUK/cpg/internal/pager"
)

// keyMap defines the keyboard bindings for the pager
type keyMap struct {
	// Global
	ForceQuit key.Binding

	// Paging
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Export   key.Binding

	// Search
	Search    key.Binding
	NextMatch key.Binding
	PrevMatch key.Binding
	Escape    key.Binding
	Confirm   key.Binding
}

// newKeyMap builds the bindings from the configured key lists
func newKeyMap(kb config.KeybindingConfig) keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),

		Quit:     binding(kb.Quit, "Quit"),
		Up:       binding(kb.ScrollUp, "Scroll up"),
		Down:     binding(kb.ScrollDown, "Scroll down"),
		PageUp:   binding(kb.PageUp, "Page up"),
		PageDown: binding(kb.PageDown, "Page down"),
		Top:      binding(kb.Top, "Go to top"),
		Bottom:   binding(kb.Bottom, "Go to bottom"),
		Export:   binding(kb.Export, "Write record to file"),

		Search:    binding(kb.Search, "Search"),
		NextMatch: binding(kb.NextMatch, "Next match"),
		PrevMatch: binding(kb.PrevMatch, "Previous match"),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to pager"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

func binding(keys []string, help string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), help),
	)
}

// pagingKey maps a key press in the pager state
func (k keyMap) pagingKey(msg tea.KeyMsg) pager.Key {
	switch {
	case key.Matches(msg, k.Quit):
		return pager.KeyQuit
	case key.Matches(msg, k.Down):
		return pager.KeyDown
	case key.Matches(msg, k.Up):
		return pager.KeyUp
	case key.Matches(msg, k.PageDown):
		return pager.KeyPageDown
	case key.Matches(msg, k.PageUp):
		return pager.KeyPageUp
	case key.Matches(msg, k.Top):
		return pager.KeyTop
	case key.Matches(msg, k.Bottom):
		return pager.KeyBottom
	case key.Matches(msg, k.Search):
		return pager.KeySearch
	case key.Matches(msg, k.Export):
		return pager.KeyExport
	}
	return pager.KeyNone
}

// activeKey maps a key press while a committed search is shown
func (k keyMap) activeKey(msg tea.KeyMsg) pager.Key {
	switch {
	case key.Matches(msg, k.Escape):
		return pager.KeyEscape
	case key.Matches(msg, k.Quit):
		return pager.KeyQuit
	case key.Matches(msg, k.NextMatch):
		return pager.KeyNext
	case key.Matches(msg, k.PrevMatch):
		return pager.KeyPrev
	}
	return pager.KeyNone
}
