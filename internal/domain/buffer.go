package domain

import "strings"

const (
	packetPrefix    = "bulk: "
	packetSeparator = ", "
)

// Buffer is the ordered sequence of commands waiting to be flushed.
// It has a single owner and is not safe for concurrent use.
type Buffer struct {
	commands []Command
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{commands: make([]Command, 0)}
}

// Add appends a command to the buffer.
func (b *Buffer) Add(cmd Command) {
	b.commands = append(b.commands, cmd)
}

// Size returns the number of commands in the buffer.
func (b *Buffer) Size() int {
	return len(b.commands)
}

// Empty returns true if the buffer has no commands.
func (b *Buffer) Empty() bool {
	return len(b.commands) == 0
}

// First returns the oldest buffered command, or nil if empty.
func (b *Buffer) First() *Command {
	if len(b.commands) == 0 {
		return nil
	}
	return &b.commands[0]
}

// Reset clears the buffer for reuse.
func (b *Buffer) Reset() {
	b.commands = b.commands[:0]
}

// Packet builds the packet for the buffered commands.
// Empty texts are skipped, the rest are joined with ", " and prefixed with
// "bulk: ". The packet text is empty if no command carried text.
// Returns false when the buffer is empty; no packet exists in that case.
func (b *Buffer) Packet() (Packet, bool) {
	if len(b.commands) == 0 {
		return Packet{}, false
	}

	var sb strings.Builder
	for _, cmd := range b.commands {
		if cmd.Text == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(packetPrefix)
		} else {
			sb.WriteString(packetSeparator)
		}
		sb.WriteString(cmd.Text)
	}

	return Packet{
		Text:      sb.String(),
		Timestamp: b.commands[0].ArrivalTime,
	}, true
}
