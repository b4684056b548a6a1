// Package console provides the stdout packet sink.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// Sink implements ports.Sink by printing one line per packet.
type Sink struct {
	out  io.Writer
	next ports.Sink
}

// NewSink creates a console sink writing to out that owns next.
// A nil out writes to os.Stdout; next may be nil for the tail of the chain.
func NewSink(out io.Writer, next ports.Sink) *Sink {
	if out == nil {
		out = os.Stdout
	}
	return &Sink{out: out, next: next}
}

// Handle prints the packet text followed by a newline and always forwards.
func (s *Sink) Handle(ctx context.Context, p domain.Packet) error {
	if _, err := io.WriteString(s.out, p.Text+"\n"); err != nil {
		return fmt.Errorf("console sink: %w", err)
	}
	if s.next != nil {
		return s.next.Handle(ctx, p)
	}
	return nil
}

// Terminate forwards the end-of-stream signal.
func (s *Sink) Terminate(ctx context.Context) error {
	if s.next != nil {
		return s.next.Terminate(ctx)
	}
	return nil
}
