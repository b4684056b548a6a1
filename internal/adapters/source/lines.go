// Package source provides command sources that feed the pipeline.
package source

import (
	"bufio"
	"context"
	"io"
	"sync"
	"time"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

const maxLineBytes = 1 << 20 // 1MB

// Clock returns the arrival time stamped on each command.
type Clock func() time.Time

type scanResult struct {
	text string
	err  error
}

// LineSource implements ports.CommandSource over an io.Reader, one command
// per line.
//
// Lines are scanned by a background goroutine so Next can return as soon as
// the context is cancelled, even while the reader blocks.
type LineSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	clock   Clock

	start     sync.Once
	stop      sync.Once
	lines     chan scanResult
	done      chan struct{}
	exhausted bool
}

// NewLineSource creates a source reading lines from r.
// If r is an io.Closer it is closed by Close. A nil clock uses time.Now.
func NewLineSource(r io.Reader, clock Clock) *LineSource {
	if clock == nil {
		clock = time.Now
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	s := &LineSource{
		scanner: sc,
		clock:   clock,
		lines:   make(chan scanResult),
		done:    make(chan struct{}),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next returns the next line as a command, or io.EOF when r is exhausted.
func (s *LineSource) Next(ctx context.Context) (domain.Command, error) {
	if err := ctx.Err(); err != nil {
		return domain.Command{}, err
	}
	if s.exhausted {
		return domain.Command{}, ports.ErrSourceExhausted
	}
	s.start.Do(func() { go s.scan() })

	select {
	case <-ctx.Done():
		return domain.Command{}, ctx.Err()
	case res, ok := <-s.lines:
		if !ok {
			s.exhausted = true
			return domain.Command{}, ports.ErrSourceExhausted
		}
		if res.err != nil {
			return domain.Command{}, res.err
		}
		return domain.NewCommand(res.text, s.clock()), nil
	}
}

// scan feeds lines to Next until the reader ends or Close is called.
func (s *LineSource) scan() {
	defer close(s.lines)

	for s.scanner.Scan() {
		select {
		case s.lines <- scanResult{text: s.scanner.Text()}:
		case <-s.done:
			return
		}
	}
	if err := s.scanner.Err(); err != nil {
		select {
		case s.lines <- scanResult{err: err}:
		case <-s.done:
		}
	}
}

// Close stops the scanner and closes the underlying reader when it is
// closable. A read already blocked in the reader returns only once the
// reader does.
func (s *LineSource) Close() error {
	s.stop.Do(func() { close(s.done) })
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
