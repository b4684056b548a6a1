package bulk

import "context"

// Plugin is a sink with resources that outlive a single packet, such as a
// database handle.
type Plugin interface {
	// Name is the sink name used in Config.Sinks.
	Name() string

	// NewSink builds the plugin's sink owning next.
	NewSink(next Sink) (Sink, error)

	// Shutdown releases the plugin's resources.
	Shutdown(ctx context.Context) error
}
