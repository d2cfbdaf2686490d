package render

// Renderer applies styling to a single line
type Renderer interface {
	Render(line string) string
}

// PlainRenderer renders without styling
type PlainRenderer struct{}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// Render returns the line as-is
func (r *PlainRenderer) Render(line string) string {
	return line
}

// New picks the renderer for a record format. Highlighting falls back to
// plain output when disabled or when chroma has no lexer for the format.
func New(format string, highlight bool, style string) Renderer {
	if !highlight {
		return NewPlainRenderer()
	}
	if r := NewSyntaxRenderer(LexerFor(format), style); r != nil {
		return r
	}
	return NewPlainRenderer()
}
