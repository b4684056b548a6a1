package ports

import (
	"context"
	"io"

	"github.com/bft-labs/bulk/internal/domain"
)

// CommandSource supplies commands, one per logical input line.
// Implementations stamp each command with its arrival time.
type CommandSource interface {
	// Next blocks until the next command is available.
	// Returns io.EOF when the source is exhausted.
	Next(ctx context.Context) (domain.Command, error)

	// Close releases all resources held by the source.
	Close() error
}

// ErrSourceExhausted indicates that no more commands will arrive.
var ErrSourceExhausted = io.EOF
