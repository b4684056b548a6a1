// Package fs provides file system adapters.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// FileSink implements ports.Sink by writing each packet to its own file.
//
// The file name is derived from the packet timestamp truncated to whole
// seconds, so two packets flushed within the same second share a name and
// the later one overwrites the earlier one.
type FileSink struct {
	dir  string
	next ports.Sink
}

// NewFileSink creates a FileSink writing into dir that owns next.
// next may be nil for the tail of the chain.
func NewFileSink(dir string, next ports.Sink) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{dir: dir, next: next}
}

// Handle writes the packet text and forwards the packet.
// Packets with empty text are skipped entirely and not forwarded.
func (s *FileSink) Handle(ctx context.Context, p domain.Packet) error {
	if p.Empty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.write(s.Path(p), []byte(p.Text)); err != nil {
		return fmt.Errorf("file sink: %w", err)
	}

	if s.next != nil {
		return s.next.Handle(ctx, p)
	}
	return nil
}

// Terminate forwards the end-of-stream signal.
func (s *FileSink) Terminate(ctx context.Context) error {
	if s.next != nil {
		return s.next.Terminate(ctx)
	}
	return nil
}

// Path returns the destination file for a packet.
func (s *FileSink) Path(p domain.Packet) string {
	return filepath.Join(s.dir, FileName(p))
}

// FileName returns "bulk<unix-seconds>.log" for the packet timestamp.
func FileName(p domain.Packet) string {
	return "bulk" + strconv.FormatInt(p.Timestamp.Unix(), 10) + ".log"
}

// write creates or overwrites path.
// Uses atomic write (write to temp file, then rename) so readers never see a
// partial packet.
func (s *FileSink) write(path string, data []byte) error {
	// Ensure directory exists
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"

	// Write to temp file
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	// Atomic rename
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
