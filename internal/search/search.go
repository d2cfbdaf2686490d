package search

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidQuery is returned when a query cannot be turned into a matcher
var ErrInvalidQuery = errors.New("error with search term")

// Matcher finds lines containing a literal query, ignoring case
type Matcher struct {
	query  string
	folded string
}

// Compile builds a matcher for query.
// Lines never contain line terminators, so a query with one could
// never match and is rejected.
func Compile(query string) (*Matcher, error) {
	if !utf8.ValidString(query) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrInvalidQuery)
	}
	if strings.ContainsAny(query, "\r\n") {
		return nil, fmt.Errorf("%w: line terminator in %q", ErrInvalidQuery, query)
	}
	return &Matcher{query: query, folded: strings.ToLower(query)}, nil
}

// Query returns the query as typed
func (m *Matcher) Query() string {
	return m.query
}

// Match reports whether line contains the query.
// The empty query matches every line.
func (m *Matcher) Match(line string) bool {
	return strings.Contains(strings.ToLower(line), m.folded)
}

// Forward scans from, from+1, ... and returns the first matching index.
// from is returned unchanged when nothing matches.
func (m *Matcher) Forward(lines []string, from int) int {
	start := from
	if start < 0 {
		start = 0
	}
	for i := start; i < len(lines); i++ {
		if m.Match(lines[i]) {
			return i
		}
	}
	return from
}

// Backward scans from-1, from-2, ... 0 and returns the first matching index.
// from is returned unchanged when nothing matches.
func (m *Matcher) Backward(lines []string, from int) int {
	start := from - 1
	if start >= len(lines) {
		start = len(lines) - 1
	}
	for i := start; i >= 0; i-- {
		if m.Match(lines[i]) {
			return i
		}
	}
	return from
}
