package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TimelordUK/cpg/internal/config"
	"github.com/TimelordUK/cpg/internal/pager"
	"github.com/TimelordUK/cpg/internal/record"
	"github.com/TimelordUK/cpg/internal/slice"
	"github.com/TimelordUK/cpg/internal/source"
	"github.com/TimelordUK/cpg/internal/view"
	"github.com/TimelordUK/cpg/pkg/logformat"
)

const hashA = "commit 3f2a9c1d8e7b6a5f4c3d2e1f0a9b8c7d6e5f4a3b"

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, height int, lines []string) (*Model, chan source.Result) {
	t.Helper()
	format, err := logformat.Lookup(logformat.Git, nil)
	if err != nil {
		t.Fatalf("Lookup(git) error = %v", err)
	}

	ch := make(chan source.Result, 4)
	ch <- source.Result{Lines: lines}

	c := pager.New(ch, record.NewFinder(format), view.NewViewport(80, height), pager.Options{
		Name:   "test",
		Slicer: slice.NewSlicerIn(t.TempDir()),
	})
	m := NewModel(c, Options{Config: config.DefaultConfig(), Name: "test", Width: 80, Height: height})
	if err := m.Err(); err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	return m, ch
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name     string
		height   int
		context  int
		inSearch bool
		want     layout
	}{
		{"no record", 24, 0, false, layout{context: 0, body: 23}},
		{"short record", 24, 3, false, layout{context: 3, body: 19}},
		{"capped record", 24, 40, false, layout{context: 6, body: 16}},
		{"search bar", 24, 40, true, layout{context: 6, body: 15, search: 1}},
		{"tiny screen", 3, 40, false, layout{context: 0, body: 2}},
		{"no screen", 0, 5, true, layout{context: 0, body: 1, search: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeLayout(tt.height, tt.context, 7, tt.inSearch)
			if got != tt.want {
				t.Errorf("computeLayout(%d, %d) = %+v, want %+v", tt.height, tt.context, got, tt.want)
			}
		})
	}
}

func TestPagingKeys(t *testing.T) {
	m, _ := newModel(t, 6, numbered(30))

	m.Update(runes("j"))
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.frame.First; got != 2 {
		t.Errorf("First = %d after j/down, want 2", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got := m.frame.First; got != 7 {
		t.Errorf("First = %d after space, want 7", got)
	}

	m.Update(runes("G"))
	if got := m.frame.First; got != 25 {
		t.Errorf("First = %d after G, want 25", got)
	}

	m.Update(runes("g"))
	if got := m.frame.First; got != 0 {
		t.Errorf("First = %d after g, want 0", got)
	}

	if _, cmd := m.Update(runes("q")); !isQuit(cmd) {
		t.Error("q did not quit")
	}
}

func TestForceQuitFromSearch(t *testing.T) {
	m, _ := newModel(t, 6, numbered(10))
	m.Update(runes("/"))
	if _, ok := m.controller.State().(pager.SearchInput); !ok {
		t.Fatalf("state = %T, want SearchInput", m.controller.State())
	}

	// q is part of the query here
	if _, cmd := m.Update(runes("q")); isQuit(cmd) {
		t.Error("q quit while typing a query")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); !isQuit(cmd) {
		t.Error("ctrl+c did not quit")
	}
}

func TestSearchFlow(t *testing.T) {
	lines := []string{"alpha", "beta", "gamma", "delta", "beta two", "x", "y", "z", "w"}
	m, _ := newModel(t, 5, lines)

	m.Update(runes("/"))
	m.Update(runes("b"))
	m.Update(runes("e"))
	if got := m.frame.First; got != 1 {
		t.Errorf("First = %d while typing, want 1", got)
	}
	if !strings.Contains(m.View(), "/be") {
		t.Errorf("View() has no search bar:\n%s", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if s, ok := m.controller.State().(pager.SearchActive); !ok || s.Query != "be" {
		t.Fatalf("state = %#v, want SearchActive{be}", m.controller.State())
	}

	m.Update(runes("n"))
	if got := m.frame.First; got != 4 {
		t.Errorf("First = %d after n, want 4", got)
	}
	m.Update(runes("N"))
	if got := m.frame.First; got != 1 {
		t.Errorf("First = %d after N, want 1", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.controller.State().(pager.Paging); !ok {
		t.Errorf("state = %T after esc, want Paging", m.controller.State())
	}
	if m.layout.search != 0 {
		t.Errorf("layout.search = %d in the pager, want 0", m.layout.search)
	}
}

func TestBackspaceRestoresAnchor(t *testing.T) {
	m, _ := newModel(t, 4, []string{"a", "b", "c", "target", "d", "e"})
	m.Update(runes("j"))

	m.Update(runes("/"))
	m.Update(runes("t"))
	if got := m.frame.First; got != 3 {
		t.Fatalf("First = %d, want 3", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.frame.First; got != 1 {
		t.Errorf("First = %d after clearing the query, want anchor 1", got)
	}
}

func TestStreamingAndContext(t *testing.T) {
	lines := []string{hashA, "Author: Mr. Example", "", "    message", "diff --git a/x b/x"}
	m, ch := newModel(t, 12, lines)

	if strings.Contains(m.View(), "[complete]") {
		t.Error("View() reports complete while the channel is open")
	}

	more := numbered(20)
	ch <- source.Result{Lines: more}
	close(ch)
	m.Update(tickMsg{})

	if m.frame.Total != 25 {
		t.Errorf("Total = %d after tick, want 25", m.frame.Total)
	}
	if !strings.Contains(m.View(), "[complete]") {
		t.Error("View() does not report completion")
	}

	m.Update(runes("j"))
	m.Update(runes("j"))
	if m.layout.context != 2 {
		t.Errorf("layout.context = %d, want 2 header lines", m.layout.context)
	}
	if !strings.Contains(m.View(), "Mr. Example") {
		t.Errorf("View() has no record header:\n%s", m.View())
	}
}

func TestMouseWheel(t *testing.T) {
	m, _ := newModel(t, 6, numbered(30))

	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if got := m.frame.First; got != wheelLines {
		t.Errorf("First = %d after wheel down, want %d", got, wheelLines)
	}
	m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if got := m.frame.First; got != 0 {
		t.Errorf("First = %d after wheel up, want 0", got)
	}
}

func TestReadErrorEndsSession(t *testing.T) {
	m, ch := newModel(t, 6, numbered(10))
	ch <- source.Result{Err: &source.ReadError{Err: errors.New("boom")}}

	_, cmd := m.Update(tickMsg{})
	if !isQuit(cmd) {
		t.Error("read error did not quit")
	}
	var target *source.ReadError
	if !errors.As(m.Err(), &target) {
		t.Errorf("Err() = %v, want ReadError", m.Err())
	}
}

func TestExportNotice(t *testing.T) {
	m, _ := newModel(t, 4, []string{hashA, "Author: a", "+a", "+b", "+c"})
	m.Update(runes("w"))

	if !strings.HasPrefix(m.frame.Notice, "wrote 5 lines to ") {
		t.Errorf("Notice = %q", m.frame.Notice)
	}
	if !strings.Contains(m.View(), "wrote 5 lines") {
		t.Error("View() does not show the notice")
	}
}
