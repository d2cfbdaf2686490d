package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// DefaultChannelCapacity is the number of batches that may wait for the
// consumer before the reader blocks
const DefaultChannelCapacity = 64

// Result is one message from the ingestion goroutine: either a batch of
// freshly read lines or the error that ended the stream
type Result struct {
	Lines []string
	Err   error
}

// ReadError reports a failure reading the input
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read input: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// StreamOptions configures Stream
type StreamOptions struct {
	// BatchSize is the number of lines sent per message
	BatchSize int

	// Capacity is the channel buffer, in batches
	Capacity int

	Logger *slog.Logger

	// Closer, when set, is closed by the reader goroutine once it has
	// stopped reading
	Closer io.Closer
}

// Stream reads r line by line on its own goroutine and sends batches of
// at most BatchSize lines, in order, on the returned channel. A short
// batch is sent early whenever the reader has nothing buffered.
//
// The channel is closed when the input is exhausted or after a read
// error has been sent. Lines read before a failure are delivered first.
// Cancelling ctx stops the goroutine at its next send.
func Stream(ctx context.Context, r io.Reader, opts StreamOptions) <-chan Result {
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	if opts.Capacity < 1 {
		opts.Capacity = DefaultChannelCapacity
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	out := make(chan Result, opts.Capacity)
	go func() {
		defer close(out)
		if opts.Closer != nil {
			defer func() {
				if err := opts.Closer.Close(); err != nil {
					logger.Warn("error closing input", "error", err)
				}
			}()
		}
		streamLines(ctx, bufio.NewReader(r), opts.BatchSize, out, logger)
	}()
	return out
}

func streamLines(ctx context.Context, reader *bufio.Reader, batchSize int, out chan<- Result, logger *slog.Logger) {
	decoder := unicode.UTF8.NewDecoder()
	send := func(res Result) bool {
		select {
		case out <- res:
			return true
		case <-ctx.Done():
			logger.Debug("receiver gone, stopping input reader")
			return false
		}
	}

	for {
		lines := make([]string, 0, batchSize)
		var readErr error
		eof := false

		for len(lines) < batchSize {
			raw, err := reader.ReadBytes('\n')
			if len(raw) > 0 {
				lines = append(lines, decodeLine(decoder, raw))
			}
			if err == nil {
				// the next read may block on a slow producer
				if reader.Buffered() == 0 {
					break
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				eof = true
			} else {
				logger.Warn("error reading input lines", "error", err)
				readErr = err
			}
			break
		}

		if len(lines) > 0 {
			logger.Debug("read batch", "lines", len(lines))
			if !send(Result{Lines: lines}) {
				return
			}
		}
		if readErr != nil {
			send(Result{Err: &ReadError{Err: readErr}})
			return
		}
		if eof {
			logger.Debug("end of input")
			return
		}
	}
}

// decodeLine strips the line feed and replaces invalid UTF-8
func decodeLine(decoder *encoding.Decoder, raw []byte) string {
	raw = bytes.TrimSuffix(raw, []byte{'\n'})
	decoded, err := decoder.Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return string(decoded)
}
