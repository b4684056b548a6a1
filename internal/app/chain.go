package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// SinkFactory builds a sink that owns next. next is nil for the tail.
type SinkFactory func(next ports.Sink) (ports.Sink, error)

// BuildChain links the named sinks in order, so the first name receives
// packets first. Sinks are built tail-first so each can own its successor.
// An empty chain discards every packet.
func BuildChain(names []string, factories map[string]SinkFactory) (ports.Sink, error) {
	var next ports.Sink
	for i := len(names) - 1; i >= 0; i-- {
		factory, ok := factories[names[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSink, names[i])
		}
		s, err := factory(next)
		if err != nil {
			return nil, fmt.Errorf("build sink %q: %w", names[i], err)
		}
		next = s
	}
	if next == nil {
		return DiscardSink{}, nil
	}
	return next, nil
}

// DiscardSink implements ports.Sink by dropping everything.
type DiscardSink struct{}

// Handle discards the packet.
func (DiscardSink) Handle(ctx context.Context, p domain.Packet) error { return nil }

// Terminate does nothing.
func (DiscardSink) Terminate(ctx context.Context) error { return nil }
