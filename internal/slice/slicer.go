package slice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Info describes an exported slice of the line buffer
type Info struct {
	Path      string // Written file
	StartLine int    // Start line (0-based, inclusive)
	EndLine   int    // End line (0-based, exclusive)
}

// Lines returns the number of lines written
func (i *Info) Lines() int {
	return i.EndLine - i.StartLine
}

// Slicer writes ranges of lines to files
type Slicer struct {
	dir string
}

// NewSlicer creates a slicer writing to the temp directory
func NewSlicer() *Slicer {
	return NewSlicerIn(os.TempDir())
}

// NewSlicerIn creates a slicer writing to dir
func NewSlicerIn(dir string) *Slicer {
	return &Slicer{dir: dir}
}

// SliceRange writes lines[startLine:endLine] to a new file named after
// name and the range
func (s *Slicer) SliceRange(lines []string, name string, startLine, endLine int) (*Info, error) {
	if startLine < 0 {
		startLine = 0
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine >= endLine {
		return nil, fmt.Errorf("invalid range: %d-%d", startLine, endLine)
	}

	base := sanitize(name)
	path := filepath.Join(s.dir, fmt.Sprintf("cpg-slice-%d-%d-%s.txt", startLine, endLine, base))

	outFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create slice file: %w", err)
	}
	defer outFile.Close()

	for i := startLine; i < endLine; i++ {
		if _, err := outFile.WriteString(lines[i]); err != nil {
			os.Remove(path)
			return nil, fmt.Errorf("failed to write line %d: %w", i, err)
		}
		if _, err := outFile.WriteString("\n"); err != nil {
			os.Remove(path)
			return nil, fmt.Errorf("failed to write newline: %w", err)
		}
	}

	return &Info{
		Path:      path,
		StartLine: startLine,
		EndLine:   endLine,
	}, nil
}

// sanitize turns an input name into something safe for a file name
func sanitize(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == "" || base == "-" {
		return "stdin"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, base)
}
