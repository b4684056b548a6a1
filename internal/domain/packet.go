package domain

import "time"

// Packet is the output of a single accumulator flush.
type Packet struct {
	// Text is the "bulk: a, b, c" line, or empty when every buffered command was empty
	Text string

	// Timestamp is the arrival time of the first command in the flushed buffer
	Timestamp time.Time
}

// Empty returns true if the packet carries no text.
func (p Packet) Empty() bool {
	return p.Text == ""
}
