package slice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSliceRange(t *testing.T) {
	dir := t.TempDir()
	s := NewSlicerIn(dir)
	lines := []string{"commit abc", "Author: a", "", "    message", "diff --git a b"}

	info, err := s.SliceRange(lines, "stdin", 0, 4)
	if err != nil {
		t.Fatalf("SliceRange() error = %v", err)
	}
	if info.Lines() != 4 {
		t.Errorf("Lines() = %d, want 4", info.Lines())
	}
	if filepath.Dir(info.Path) != dir {
		t.Errorf("Path = %q, want inside %q", info.Path, dir)
	}

	data, err := os.ReadFile(info.Path)
	if err != nil {
		t.Fatalf("failed to read slice: %v", err)
	}
	if want := strings.Join(lines[:4], "\n") + "\n"; string(data) != want {
		t.Errorf("slice content = %q, want %q", data, want)
	}
}

func TestSliceRangeClampsAndRejects(t *testing.T) {
	s := NewSlicerIn(t.TempDir())
	lines := []string{"a", "b"}

	info, err := s.SliceRange(lines, "/var/log/app log", -3, 10)
	if err != nil {
		t.Fatalf("SliceRange() error = %v", err)
	}
	if info.StartLine != 0 || info.EndLine != 2 {
		t.Errorf("range = %d-%d, want 0-2", info.StartLine, info.EndLine)
	}
	if !strings.HasSuffix(info.Path, "app_log.txt") {
		t.Errorf("Path = %q, want sanitized input name", info.Path)
	}

	if _, err := s.SliceRange(lines, "-", 2, 2); err == nil {
		t.Errorf("SliceRange(empty range) should fail")
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"":               "stdin",
		"-":              "stdin",
		"/tmp/git.log":   "git.log",
		"C:\\x":          "C__x",
		"with space.txt": "with_space.txt",
	}
	for in, want := range tests {
		if got := sanitize(in); got != want {
			t.Errorf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
