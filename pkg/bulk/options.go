package bulk

import (
	"io"
	"time"

	logadapter "github.com/bft-labs/bulk/internal/adapters/log"
	"github.com/bft-labs/bulk/internal/app"
	"github.com/bft-labs/bulk/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// SinkFactory builds a sink that owns next. next is nil for the tail.
type SinkFactory = app.SinkFactory

// Option configures optional behavior of Bulk.
type Option func(*options)

// options holds the optional configuration for a Bulk instance.
type options struct {
	logger  ports.Logger
	output  io.Writer
	clock   func() time.Time
	sinks   map[string]SinkFactory
	order   []string
	plugins []Plugin
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: logadapter.NewNoopLogger(),
		clock:  time.Now,
		sinks:  make(map[string]SinkFactory),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets the writer used by the console sink.
// If not provided, packets are printed to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithClock sets the function that stamps arrival times on commands.
// If not provided, time.Now is used.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithSink registers a named sink. If Config.Sinks does not mention name,
// the sink is appended to the end of the chain.
func WithSink(name string, factory SinkFactory) Option {
	return func(o *options) {
		if _, exists := o.sinks[name]; !exists {
			o.order = append(o.order, name)
		}
		o.sinks[name] = factory
	}
}

// WithPlugin registers a sink plugin under its Name.
// Plugins are shut down in reverse registration order by Close.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
		WithSink(plugin.Name(), plugin.NewSink)(o)
	}
}
