package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bft-labs/bulk/internal/adapters/console"
	"github.com/bft-labs/bulk/internal/adapters/fs"
	"github.com/bft-labs/bulk/internal/adapters/source"
	"github.com/bft-labs/bulk/internal/app"
	"github.com/bft-labs/bulk/internal/batch"
	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// Built-in sink names.
const (
	SinkConsole = "console"
	SinkFile    = "file"
)

type (
	// Command is a single input line stamped with its arrival time.
	Command = domain.Command

	// Packet is the output of one flush.
	Packet = domain.Packet

	// Sink receives packets and forwards them to its successor.
	Sink = ports.Sink

	// Stats counts what the pipeline did with its input.
	Stats = batch.Stats
)

// Errors returned by the pipeline. Check with errors.Is.
var (
	ErrTerminated    = domain.ErrTerminated
	ErrInvalidConfig = domain.ErrInvalidConfig
	ErrUnknownSink   = domain.ErrUnknownSink
)

// Config holds the configuration of a Bulk pipeline.
type Config struct {
	// Threshold is the number of commands flushed together outside a block.
	Threshold int

	// Delay is the pause between two input lines in Run and Follow.
	Delay time.Duration

	// OutputDir is where the file sink writes bulk<unix-seconds>.log files.
	OutputDir string

	// Sinks lists the sink chain in delivery order.
	Sinks []string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Threshold: 3,
		OutputDir: ".",
		Sinks:     []string{SinkConsole, SinkFile},
	}
}

// SetDefaults fills zero-valued optional fields.
func (c *Config) SetDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Sinks == nil {
		c.Sinks = []string{SinkConsole, SinkFile}
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %d", ErrInvalidConfig, c.Threshold)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Bulk is a command batching pipeline that can be embedded in other
// applications. It is not safe for concurrent use.
type Bulk struct {
	config   Config
	opts     options
	pipeline *app.Pipeline
	logger   ports.Logger
}

// New creates a pipeline with the given configuration.
// Returns an error if configuration is invalid or a sink cannot be built.
func New(cfg Config, opts ...Option) (*Bulk, error) {
	// Set defaults
	cfg.SetDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	factories := map[string]app.SinkFactory{
		SinkConsole: func(next ports.Sink) (ports.Sink, error) {
			return console.NewSink(o.output, next), nil
		},
		SinkFile: func(next ports.Sink) (ports.Sink, error) {
			return fs.NewFileSink(cfg.OutputDir, next), nil
		},
	}
	names := append([]string(nil), cfg.Sinks...)
	for _, name := range o.order {
		factories[name] = o.sinks[name]
		if !contains(names, name) {
			names = append(names, name)
		}
	}

	head, err := app.BuildChain(names, factories)
	if err != nil {
		shutdownPlugins(context.Background(), o.plugins, o.logger)
		return nil, err
	}

	pipeline, err := app.NewPipeline(cfg.Threshold, head, o.logger)
	if err != nil {
		shutdownPlugins(context.Background(), o.plugins, o.logger)
		return nil, err
	}

	o.logger.Debug("pipeline ready",
		ports.Int("threshold", cfg.Threshold),
		ports.Any("sinks", names),
	)

	return &Bulk{
		config:   cfg,
		opts:     o,
		pipeline: pipeline,
		logger:   o.logger,
	}, nil
}

// Handle pushes a single line through the pipeline, stamped with the
// configured clock.
func (b *Bulk) Handle(ctx context.Context, text string) error {
	return b.pipeline.Handle(ctx, domain.NewCommand(text, b.opts.clock()))
}

// HandleCommand pushes a pre-stamped command through the pipeline.
func (b *Bulk) HandleCommand(ctx context.Context, cmd Command) error {
	return b.pipeline.Handle(ctx, cmd)
}

// Run reads commands from r, one per line, until the terminate signal, the
// end of r, or context cancellation. The end of r and cancellation both
// flush pending commands as Close does. Run does not close r.
func (b *Bulk) Run(ctx context.Context, r io.Reader) error {
	src := source.NewLineSource(readerOnly{r}, b.opts.clock)
	defer src.Close()
	return b.run(ctx, src)
}

// readerOnly hides an io.Closer from the line source.
type readerOnly struct {
	io.Reader
}

// Follow tails the file at path, processing lines as they are appended,
// until the terminate signal, removal of the file, or context cancellation.
func (b *Bulk) Follow(ctx context.Context, path string) error {
	src, err := source.NewFollowSource(path, b.opts.clock, b.logger)
	if err != nil {
		return err
	}
	defer src.Close()
	return b.run(ctx, src)
}

func (b *Bulk) run(ctx context.Context, src ports.CommandSource) error {
	runner := app.NewRunner(app.RunnerConfig{Delay: b.config.Delay}, src, b.pipeline, b.logger)
	return runner.Run(ctx)
}

// Close flushes pending commands (an unclosed block is discarded), signals
// end-of-stream to the sinks if that has not happened yet, and shuts down
// plugins in reverse registration order.
func (b *Bulk) Close(ctx context.Context) error {
	err := b.pipeline.Close(ctx)
	return errors.Join(err, shutdownPlugins(ctx, b.opts.plugins, b.logger))
}

// Terminated returns true once the terminate signal has been processed.
func (b *Bulk) Terminated() bool {
	return b.pipeline.Terminated()
}

// Stats returns the pipeline counters.
func (b *Bulk) Stats() Stats {
	return b.pipeline.Stats()
}

// shutdownPlugins shuts plugins down in reverse order and joins their errors.
func shutdownPlugins(ctx context.Context, plugins []Plugin, logger ports.Logger) error {
	var errs []error
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			errs = append(errs, fmt.Errorf("shutdown %s: %w", p.Name(), err))
			continue
		}
		logger.Debug("plugin shutdown complete", ports.String("plugin", p.Name()))
	}
	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
