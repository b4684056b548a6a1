package ports

import (
	"context"

	"github.com/bft-labs/bulk/internal/domain"
)

// BlockHandler is the stage downstream of the block tracker.
// Block markers never reach Handle; they arrive as StartBlock/EndBlock.
type BlockHandler interface {
	// Handle processes an ordinary command or the terminate signal.
	Handle(ctx context.Context, cmd domain.Command) error

	// StartBlock is called when the outermost block opens.
	StartBlock(ctx context.Context) error

	// EndBlock is called when the outermost block closes.
	EndBlock(ctx context.Context) error
}
