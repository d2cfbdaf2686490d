package logformat

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Git is the name of the built-in git log/patch format
const Git = "git"

var (
	// ErrUnknownFormat is returned when no format is registered under a name
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrPattern is returned when a boundary pattern is empty or does not compile
	ErrPattern = errors.New("could not parse regular expression")

	// ErrDuplicateFormat is returned when custom format names differ only in case
	ErrDuplicateFormat = errors.New("duplicate format name")
)

// Format recognises record boundaries in a line stream.
// The context finder only asks these two questions, so new formats
// never touch the scan algorithm.
type Format interface {
	// Name returns the selector the format was built from
	Name() string

	// IsStart reports whether line is the first line of a record
	IsStart(line string) bool

	// IsEnd reports whether line terminates the record before it
	IsEnd(line string) bool
}

// Patterns holds the raw start/end expressions of a format
type Patterns struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

var builtin = map[string]Patterns{
	Git: {
		Start: `^commit [0-9a-fA-F]{40}`,
		End:   `^(commit [0-9a-fA-F]{40}|diff --git)`,
	},
}

// patternFormat matches boundaries with a pair of regular expressions
type patternFormat struct {
	name  string
	start *regexp.Regexp
	end   *regexp.Regexp
}

// NewPatternFormat compiles a format from start/end expressions.
// Without an end expression a record ends at the next start line.
func NewPatternFormat(name string, p Patterns) (Format, error) {
	if strings.TrimSpace(p.Start) == "" {
		return nil, fmt.Errorf("%w: %s start is empty", ErrPattern, name)
	}
	if p.End == "" {
		p.End = p.Start
	}
	start, err := regexp.Compile(p.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: %s start: %v", ErrPattern, name, err)
	}
	end, err := regexp.Compile(p.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %s end: %v", ErrPattern, name, err)
	}
	return &patternFormat{name: name, start: start, end: end}, nil
}

func (f *patternFormat) Name() string { return f.name }

func (f *patternFormat) IsStart(line string) bool { return f.start.MatchString(line) }

func (f *patternFormat) IsEnd(line string) bool { return f.end.MatchString(line) }

// Lookup builds the format registered under name.
// Formats from custom take precedence over the built-in ones.
func Lookup(name string, custom map[string]Patterns) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	var matched []string
	for n := range custom {
		if strings.EqualFold(n, key) {
			matched = append(matched, n)
		}
	}
	switch len(matched) {
	case 0:
	case 1:
		return NewPatternFormat(key, custom[matched[0]])
	default:
		sort.Strings(matched)
		return nil, fmt.Errorf("%w: %s", ErrDuplicateFormat, strings.Join(matched, ", "))
	}
	if p, ok := builtin[key]; ok {
		return NewPatternFormat(key, p)
	}
	return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownFormat, name, strings.Join(Names(custom), ", "))
}

// Names lists every selectable format, sorted
func Names(custom map[string]Patterns) []string {
	seen := make(map[string]bool)
	var names []string
	for name := range builtin {
		seen[name] = true
		names = append(names, name)
	}
	for name := range custom {
		name = strings.ToLower(name)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
