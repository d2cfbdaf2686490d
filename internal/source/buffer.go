package source

// Buffer is the append-only line buffer shared by the pager's views.
// It is owned by the consumer side: the ingestion goroutine only sends
// fresh batches and never holds a reference into it.
type Buffer struct {
	lines []string
}

// NewBuffer creates an empty buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds a batch in order
func (b *Buffer) Append(lines ...string) {
	b.lines = append(b.lines, lines...)
}

// LineCount returns total number of lines
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Lines returns the buffered lines. Callers must not modify them.
func (b *Buffer) Lines() []string {
	return b.lines
}
