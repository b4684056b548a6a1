// Package app wires the pipeline stages together and drives them from a
// command source.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/bulk/internal/ports"
)

// RunnerConfig contains configuration for the read loop.
type RunnerConfig struct {
	// Delay is the pause between two reads from the source.
	Delay time.Duration
}

// Runner feeds commands from a source into a pipeline.
type Runner struct {
	config   RunnerConfig
	source   ports.CommandSource
	pipeline *Pipeline
	logger   ports.Logger
}

// NewRunner creates a new runner with the given dependencies.
func NewRunner(config RunnerConfig, source ports.CommandSource, pipeline *Pipeline, logger ports.Logger) *Runner {
	return &Runner{
		config:   config,
		source:   source,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Run executes the read loop.
// It returns nil after the terminate signal or when the source is exhausted,
// ctx.Err() when the context is cancelled, and the first sink or read error
// otherwise. Exhaustion and cancellation both tear the pipeline down first.
func (r *Runner) Run(ctx context.Context) error {
	defer r.logStats()

	for {
		cmd, err := r.source.Next(ctx)
		if err != nil {
			if errors.Is(err, ports.ErrSourceExhausted) {
				r.logger.Debug("command source exhausted")
				return r.pipeline.Close(ctx)
			}
			if ctx.Err() != nil {
				return r.shutdown(ctx)
			}
			return fmt.Errorf("read command: %w", err)
		}

		if err := r.pipeline.Handle(ctx, cmd); err != nil {
			return err
		}
		if r.pipeline.Terminated() {
			return nil
		}

		if r.config.Delay > 0 {
			select {
			case <-ctx.Done():
				return r.shutdown(ctx)
			case <-time.After(r.config.Delay):
			}
		}
	}
}

// shutdown flushes on cancellation; the sinks still need a live context.
func (r *Runner) shutdown(ctx context.Context) error {
	r.logger.Info("interrupted, flushing pending commands")
	if err := r.pipeline.Close(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) logStats() {
	s := r.pipeline.Stats()
	r.logger.Info("run complete",
		ports.Int("commands", s.Commands),
		ports.Int("packets", s.PacketsFlushed),
		ports.Int("suppressed", s.PacketsSuppressed),
		ports.Int("discarded", s.CommandsDiscarded),
	)
}
