package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenStdinTerminal(t *testing.T) {
	_, err := Open(context.Background(), OpenOptions{StdinIsTerminal: true})
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("Open() error = %v, want ErrNoInput", err)
	}
}

func TestOpenStdin(t *testing.T) {
	in, err := Open(context.Background(), OpenOptions{Path: Stdin})
	if err != nil {
		t.Fatalf("Open(-) error = %v", err)
	}
	defer in.Close()
	if in.Name() != "stdin" {
		t.Errorf("Name() = %q, want stdin", in.Name())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	in, err := Open(context.Background(), OpenOptions{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("content = %q", data)
	}
	if in.Name() != path {
		t.Errorf("Name() = %q, want %q", in.Name(), path)
	}
}

func TestOpenMissingFile(t *testing.T) {
	for _, follow := range []bool{false, true} {
		_, err := Open(context.Background(), OpenOptions{Path: filepath.Join(t.TempDir(), "missing"), Follow: follow})
		if err == nil {
			t.Errorf("Open(missing, follow=%v) should fail", follow)
		}
	}
}

func TestFollowReadsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growing.log")
	if err := os.WriteFile(path, []byte("first\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in, err := Open(ctx, OpenOptions{Path: path, Follow: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer in.Close()

	results := Stream(ctx, in, StreamOptions{BatchSize: 1})
	expect := func(want string) {
		t.Helper()
		select {
		case res := <-results:
			if res.Err != nil || len(res.Lines) != 1 || res.Lines[0] != want {
				t.Fatalf("got %+v, want line %q", res, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
	expect("first")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("failed to open for append: %v", err)
	}
	if _, err := f.WriteString("second\n"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	f.Close()
	expect("second")

	cancel()
	select {
	case _, ok := <-results:
		if ok {
			t.Errorf("expected stream to end after cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("stream did not end after cancel")
	}
}
