package ports

import (
	"context"

	"github.com/bft-labs/bulk/internal/domain"
)

// Sink receives flushed packets.
// Each sink owns its successor and forwards the same packet after its own
// side effect. Sinks must not mutate the packet.
type Sink interface {
	// Handle delivers a packet. Returns the first error from this sink or
	// any successor; errors are fatal to the pipeline.
	Handle(ctx context.Context, p domain.Packet) error

	// Terminate signals end-of-stream and is forwarded down the chain.
	Terminate(ctx context.Context) error
}
