package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TimelordUK/cpg/internal/config"
)

func TestNewDisabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, closer, err := New(config.DiagnosticsConfig{Enabled: false, Dir: dir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("dropped")
	if err := closer.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("disabled logger should not create %s", dir)
	}
}

func TestNewEnabledWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, closer, err := New(config.DiagnosticsConfig{Enabled: true, Dir: dir, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Debug("read batch", "lines", 42)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "read batch") || !strings.Contains(string(data), "lines=42") {
		t.Errorf("log = %q, want debug record", data)
	}
}
