// Package block collapses nested block markers into a single start/end pair.
package block

import (
	"context"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// Tracker counts block depth and forwards commands downstream.
// Markers are consumed; only the outermost open and close reach the next
// stage, as StartBlock and EndBlock.
type Tracker struct {
	next   ports.BlockHandler
	logger ports.Logger
	depth  int
}

// NewTracker creates a tracker that owns next.
func NewTracker(next ports.BlockHandler, logger ports.Logger) *Tracker {
	return &Tracker{next: next, logger: logger}
}

// Handle inspects a single command.
func (t *Tracker) Handle(ctx context.Context, cmd domain.Command) error {
	switch {
	case cmd.IsBlockOpen():
		t.depth++
		if t.depth == 1 {
			return t.next.StartBlock(ctx)
		}
		return nil

	case cmd.IsBlockClose():
		if t.depth == 0 {
			t.logger.Debug("unmatched block close ignored")
			return nil
		}
		t.depth--
		if t.depth == 0 {
			return t.next.EndBlock(ctx)
		}
		return nil

	case cmd.IsTerminate():
		// An unterminated block must never swallow the terminate signal.
		t.depth = 0
		return t.next.Handle(ctx, cmd)

	default:
		return t.next.Handle(ctx, cmd)
	}
}

// Depth returns the current nesting depth.
func (t *Tracker) Depth() int {
	return t.depth
}
