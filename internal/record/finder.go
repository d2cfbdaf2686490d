package record

import "github.com/TimelordUK/cpg/pkg/logformat"

// Boundary is an inclusive line range [Start, End]
type Boundary struct {
	Start int
	End   int
}

// Len returns the number of lines covered
func (b Boundary) Len() int {
	return b.End - b.Start + 1
}

// Finder finds record boundaries for a format. It scans backwards to the
// nearest start line and forwards to the first terminator; a record not
// yet terminated ends just before the position.
type Finder struct {
	format logformat.Format
}

// NewFinder creates a finder for the given format
func NewFinder(format logformat.Format) *Finder {
	return &Finder{format: format}
}

// FindRange returns the boundary of the record enclosing position.
// ok is false when no start line precedes position.
func (f *Finder) FindRange(lines []string, position int) (b Boundary, ok bool) {
	if position <= 0 || position > len(lines) {
		return Boundary{}, false
	}

	start := f.startLine(lines, position)
	if start < 0 {
		return Boundary{}, false
	}

	if end := f.endLine(lines, start, position); end >= 0 {
		// the terminator belongs to whatever follows
		return Boundary{Start: start, End: end - 1}, true
	}
	return Boundary{Start: start, End: position - 1}, true
}

// Context returns the lines of the record enclosing position, or nil
func (f *Finder) Context(lines []string, position int) []string {
	b, ok := f.FindRange(lines, position)
	if !ok || b.Start < 0 || b.End >= len(lines) || b.End < b.Start {
		return nil
	}
	return lines[b.Start : b.End+1]
}

// Record returns the whole record containing position: from the nearest
// start line at or before it up to the line before the next start line,
// or the end of the buffer
func (f *Finder) Record(lines []string, position int) (Boundary, bool) {
	if position < 0 || position >= len(lines) {
		return Boundary{}, false
	}
	start := f.startLine(lines, position+1)
	if start < 0 {
		return Boundary{}, false
	}
	for i := start + 1; i < len(lines); i++ {
		if f.format.IsStart(lines[i]) {
			return Boundary{Start: start, End: i - 1}, true
		}
	}
	return Boundary{Start: start, End: len(lines) - 1}, true
}

// startLine scans [0, position) backwards for a start line
func (f *Finder) startLine(lines []string, position int) int {
	for i := position - 1; i >= 0; i-- {
		if f.format.IsStart(lines[i]) {
			return i
		}
	}
	return -1
}

// endLine scans (start, position) forwards for a terminator
func (f *Finder) endLine(lines []string, start, position int) int {
	for i := start + 1; i < position; i++ {
		if f.format.IsEnd(lines[i]) {
			return i
		}
	}
	return -1
}
