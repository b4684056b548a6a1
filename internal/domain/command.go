package domain

import "time"

// Reserved command texts.
const (
	// BlockOpen starts a dynamic block. Blocks nest.
	BlockOpen = "{"

	// BlockClose ends the innermost open block.
	BlockClose = "}"

	// Terminate marks the end of the command stream.
	Terminate = "EOF"
)

// Command is a single line read from the command source.
type Command struct {
	// Text is the raw line, without the trailing newline
	Text string

	// ArrivalTime is when the source produced the line
	ArrivalTime time.Time
}

// NewCommand creates a command stamped with the given arrival time.
func NewCommand(text string, at time.Time) Command {
	return Command{Text: text, ArrivalTime: at}
}

// TerminateCommand returns the terminate signal stamped with at.
func TerminateCommand(at time.Time) Command {
	return Command{Text: Terminate, ArrivalTime: at}
}

// IsBlockOpen reports whether the command opens a block.
func (c Command) IsBlockOpen() bool { return c.Text == BlockOpen }

// IsBlockClose reports whether the command closes a block.
func (c Command) IsBlockClose() bool { return c.Text == BlockClose }

// IsTerminate reports whether the command is the end-of-stream sentinel.
func (c Command) IsTerminate() bool { return c.Text == Terminate }
