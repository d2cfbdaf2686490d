package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/alecthomas/chroma/v2/styles"
)

// lexerByFormat maps record formats to chroma lexer names
var lexerByFormat = map[string]string{
	"git": "diff",
}

// LexerFor returns the chroma lexer name used for a record format
func LexerFor(format string) string {
	if name, ok := lexerByFormat[strings.ToLower(format)]; ok {
		return name
	}
	return format
}

// SyntaxRenderer highlights lines with a chroma lexer
type SyntaxRenderer struct {
	lexerName   string
	syntaxTheme string
}

// NewSyntaxRenderer creates a renderer for the named lexer, or nil when
// chroma does not know it
func NewSyntaxRenderer(lexerName, theme string) *SyntaxRenderer {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		return nil
	}
	if theme == "" || styles.Get(theme) == styles.Fallback {
		theme = "monokai"
	}

	return &SyntaxRenderer{
		lexerName:   lexer.Config().Name,
		syntaxTheme: theme,
	}
}

// Render highlights a line, returning it unchanged on failure
func (r *SyntaxRenderer) Render(line string) string {
	if line == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, line, r.lexerName, "terminal256", r.syntaxTheme); err != nil {
		return line
	}

	// quick.Highlight may add line breaks
	highlighted := buf.String()
	highlighted = strings.ReplaceAll(highlighted, "\n", "")
	highlighted = strings.ReplaceAll(highlighted, "\r", "")
	return highlighted
}
