package pager

// Key is a decoded command key
type Key int

const (
	KeyNone Key = iota
	KeyQuit
	KeyDown
	KeyUp
	KeyPageDown
	KeyPageUp
	KeyTop
	KeyBottom
	KeySearch
	KeyEscape
	KeyEnter
	KeyNext
	KeyPrev
	KeyExport

	// KeyEdit carries the edited query text in Event.Query
	KeyEdit
)

// Event is one decoded input event
type Event struct {
	Key   Key
	Query string
}

// State is the interaction state: Paging, SearchInput or SearchActive
type State interface {
	Name() string
	isState()
}

// Paging is the initial state: the cursor follows navigation keys
type Paging struct{}

// SearchInput is entered with "/". Every edit searches forward from
// Anchor, the cursor at the time the search was opened.
type SearchInput struct {
	Query  string
	Anchor int
}

// SearchActive holds a committed query; next/prev move between matches
type SearchActive struct {
	Query string
}

func (Paging) Name() string       { return "pager" }
func (SearchInput) Name() string  { return "search-input" }
func (SearchActive) Name() string { return "search-active" }

func (Paging) isState()       {}
func (SearchInput) isState()  {}
func (SearchActive) isState() {}

// InSearch reports whether the search bar should be shown for s
func InSearch(s State) bool {
	switch s.(type) {
	case SearchInput, SearchActive:
		return true
	}
	return false
}
