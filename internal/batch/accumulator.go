// Package batch groups commands into bulk packets.
//
// The accumulator runs one of two policies. While no block is open (Idle) it
// flushes every time the buffer reaches the static threshold. While a block
// is open (InBlock) the threshold is ignored and the buffer is flushed only
// when the block ends.
package batch

import (
	"context"
	"fmt"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// State is the accumulator policy currently in effect.
type State int

const (
	StateIdle State = iota
	StateInBlock
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateInBlock:
		return "InBlock"
	default:
		return "Unknown"
	}
}

// Stats counts what the accumulator did with its input.
type Stats struct {
	Commands          int
	PacketsFlushed    int
	PacketsSuppressed int
	CommandsDiscarded int
}

// Accumulator buffers commands and emits packets to its sink.
// It implements ports.BlockHandler and is not safe for concurrent use.
type Accumulator struct {
	threshold int
	sink      ports.Sink
	logger    ports.Logger
	buffer    *domain.Buffer
	state     State
	stats     Stats
}

// NewAccumulator creates an accumulator that owns sink.
// threshold must be positive.
func NewAccumulator(threshold int, sink ports.Sink, logger ports.Logger) (*Accumulator, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive, got %d", domain.ErrInvalidConfig, threshold)
	}
	return &Accumulator{
		threshold: threshold,
		sink:      sink,
		logger:    logger,
		buffer:    domain.NewBuffer(),
		state:     StateIdle,
	}, nil
}

// StartBlock flushes what the static policy buffered and switches to the
// dynamic policy.
func (a *Accumulator) StartBlock(ctx context.Context) error {
	if a.state == StateInBlock {
		a.logger.Debug("block start ignored, block already open")
		return nil
	}
	// Commands buffered before the block must not merge with the block.
	err := a.flush(ctx)
	a.state = StateInBlock
	return err
}

// EndBlock flushes the block contents regardless of size.
func (a *Accumulator) EndBlock(ctx context.Context) error {
	if a.state != StateInBlock {
		a.logger.Debug("block end ignored, no block open")
		return nil
	}
	err := a.flush(ctx)
	a.state = StateIdle
	return err
}

// Handle buffers an ordinary command or processes the terminate signal.
func (a *Accumulator) Handle(ctx context.Context, cmd domain.Command) error {
	if cmd.IsTerminate() {
		return a.terminate(ctx)
	}

	a.buffer.Add(cmd)
	a.stats.Commands++

	if a.state == StateIdle && a.buffer.Size() >= a.threshold {
		return a.flush(ctx)
	}
	return nil
}

// terminate flushes in Idle, discards an unclosed block, and forwards the
// signal to the sinks either way.
func (a *Accumulator) terminate(ctx context.Context) error {
	if a.state == StateInBlock {
		a.discard()
		a.state = StateIdle
	} else if err := a.flush(ctx); err != nil {
		return err
	}
	return a.sink.Terminate(ctx)
}

// flush emits the buffered commands as one packet and clears the buffer.
func (a *Accumulator) flush(ctx context.Context) error {
	p, ok := a.buffer.Packet()
	a.buffer.Reset()
	if !ok {
		return nil
	}

	if p.Empty() {
		a.stats.PacketsSuppressed++
		a.logger.Debug("empty packet suppressed", ports.String("state", a.state.String()))
		return nil
	}

	a.stats.PacketsFlushed++
	a.logger.Debug("packet flushed",
		ports.String("state", a.state.String()),
		ports.Time("timestamp", p.Timestamp),
	)

	if err := a.sink.Handle(ctx, p); err != nil {
		return fmt.Errorf("deliver packet: %w", err)
	}
	return nil
}

// discard drops an unclosed block without emitting a packet.
func (a *Accumulator) discard() {
	n := a.buffer.Size()
	a.buffer.Reset()
	a.stats.CommandsDiscarded += n
	if n > 0 {
		a.logger.Warn("unclosed block discarded", ports.Int("commands", n))
	}
}

// State returns the policy currently in effect.
func (a *Accumulator) State() State {
	return a.state
}

// Pending returns the number of buffered commands.
func (a *Accumulator) Pending() int {
	return a.buffer.Size()
}

// Stats returns the counters accumulated so far.
func (a *Accumulator) Stats() Stats {
	return a.stats
}
