//go:build unix

package source

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"syscall"
	"testing"
)

func TestOpenNamedPipe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.fifo")
	if err := syscall.Mkfifo(path, 0600); err != nil {
		t.Skipf("mkfifo not available: %v", err)
	}

	go func() {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return
		}
		defer f.Close()
		f.WriteString("commit 1\nAuthor: x\nbody\n")
	}()

	in, err := Open(context.Background(), OpenOptions{Path: path})
	if err != nil {
		t.Fatalf("Open(fifo) error = %v", err)
	}

	batches, err := collect(t, Stream(context.Background(), in, StreamOptions{BatchSize: 10, Closer: in}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var lines []string
	for _, b := range batches {
		lines = append(lines, b...)
	}
	want := []string{"commit 1", "Author: x", "body"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines from named pipe = %q, want %q", lines, want)
	}
}
