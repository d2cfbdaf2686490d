package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/TimelordUK/cpg/internal/config"
)

// FileName is the log file inside the diagnostics directory
const FileName = "runlog.log"

// New returns a logger for cfg and a closer for its output. The terminal
// belongs to the pager, so output goes to a rotating file or nowhere.
func New(cfg config.DiagnosticsConfig) (*slog.Logger, io.Closer, error) {
	if !cfg.Enabled {
		return Discard(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	out := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, FileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), out, nil
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
