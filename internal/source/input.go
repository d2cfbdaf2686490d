package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"

	cpgio "github.com/TimelordUK/cpg/internal/io"
)

// Stdin is the input name used for standard input
const Stdin = "-"

// ErrNoInput is returned when standard input is a terminal and no file
// was named
var ErrNoInput = errors.New("no input: pipe data into cpg or name a file")

// Input is an opened input source
type Input struct {
	io.Reader
	name   string
	closer func() error
}

// Name returns the display name of the input
func (in *Input) Name() string {
	return in.name
}

// Close releases the input
func (in *Input) Close() error {
	if in.closer == nil {
		return nil
	}
	return in.closer()
}

// OpenOptions selects the input
type OpenOptions struct {
	// Path names a file; empty or "-" means standard input
	Path string

	// Follow keeps reading a file as it grows
	Follow bool

	// StdinIsTerminal reports whether standard input is interactive
	StdinIsTerminal bool
}

// Open opens the input. Regular files are memory mapped unless followed;
// named pipes and other special files are streamed.
func Open(ctx context.Context, opts OpenOptions) (*Input, error) {
	if opts.Path == "" || opts.Path == Stdin {
		if opts.StdinIsTerminal {
			return nil, ErrNoInput
		}
		return &Input{Reader: os.Stdin, name: "stdin"}, nil
	}

	info, err := os.Stat(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	if !info.Mode().IsRegular() {
		// pipes and devices have no size to map and cannot grow, so
		// they are read as a plain stream
		f, err := os.Open(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		return &Input{Reader: f, name: opts.Path, closer: f.Close}, nil
	}

	if opts.Follow {
		fr, err := newFollowReader(ctx, opts.Path)
		if err != nil {
			return nil, err
		}
		return &Input{Reader: fr, name: opts.Path, closer: fr.Close}, nil
	}

	m, err := cpgio.OpenMapped(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return &Input{Reader: m.Reader(), name: m.Path(), closer: m.Close}, nil
}

// followReader reads a file and, at end of file, waits for it to grow
type followReader struct {
	ctx     context.Context
	file    *os.File
	watcher *fsnotify.Watcher
}

func newFollowReader(ctx context.Context, path string) (*followReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("watch input: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		file.Close()
		return nil, fmt.Errorf("watch input: %w", err)
	}

	return &followReader{ctx: ctx, file: file, watcher: watcher}, nil
}

// Read blocks at end of file until the file is written to. It reports
// io.EOF once the file is removed or renamed, or the context ends.
func (r *followReader) Read(p []byte) (int, error) {
	for {
		n, err := r.file.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}

		select {
		case <-r.ctx.Done():
			return 0, io.EOF
		case event, ok := <-r.watcher.Events:
			if !ok || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				return 0, io.EOF
			}
		case werr, ok := <-r.watcher.Errors:
			if !ok {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("watch input: %w", werr)
		}
	}
}

// Close stops watching and closes the file
func (r *followReader) Close() error {
	werr := r.watcher.Close()
	if err := r.file.Close(); err != nil {
		return err
	}
	return werr
}
