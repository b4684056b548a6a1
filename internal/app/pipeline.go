package app

import (
	"context"
	"time"

	"github.com/bft-labs/bulk/internal/batch"
	"github.com/bft-labs/bulk/internal/block"
	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// Pipeline composes the block tracker, the accumulator and the sink chain.
// Each command is processed through every stage before Handle returns.
// It is not safe for concurrent use.
type Pipeline struct {
	tracker     *block.Tracker
	accumulator *batch.Accumulator
	logger      ports.Logger
	terminated  bool
}

// NewPipeline creates a pipeline flushing every threshold commands into sink.
func NewPipeline(threshold int, sink ports.Sink, logger ports.Logger) (*Pipeline, error) {
	acc, err := batch.NewAccumulator(threshold, sink, logger)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		tracker:     block.NewTracker(acc, logger),
		accumulator: acc,
		logger:      logger,
	}, nil
}

// Handle pushes one command through the pipeline.
// Returns domain.ErrTerminated once the terminate signal has been processed.
func (p *Pipeline) Handle(ctx context.Context, cmd domain.Command) error {
	if p.terminated {
		return domain.ErrTerminated
	}
	if cmd.IsTerminate() {
		p.terminated = true
	}
	return p.tracker.Handle(ctx, cmd)
}

// Close tears the pipeline down as if the terminate signal had arrived:
// buffered commands are flushed, an unclosed block is discarded, and the
// sinks see end-of-stream. Close after termination is a no-op.
func (p *Pipeline) Close(ctx context.Context) error {
	if p.terminated {
		return nil
	}
	p.logger.Debug("closing pipeline", ports.Int("pending", p.accumulator.Pending()))
	return p.Handle(ctx, domain.TerminateCommand(time.Now()))
}

// Terminated returns true once the terminate signal has been processed.
func (p *Pipeline) Terminated() bool {
	return p.terminated
}

// Depth returns the current block nesting depth.
func (p *Pipeline) Depth() int {
	return p.tracker.Depth()
}

// Stats returns the accumulator counters.
func (p *Pipeline) Stats() batch.Stats {
	return p.accumulator.Stats()
}
