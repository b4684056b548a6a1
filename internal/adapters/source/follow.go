package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// FollowSource implements ports.CommandSource by tailing a file.
// It reads complete lines as they are appended and blocks on file system
// notifications when it reaches the end of the file. The source ends when
// the file is removed or renamed, or when the context is cancelled.
type FollowSource struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	partial strings.Builder
	watcher *fsnotify.Watcher
	clock   Clock
	logger  ports.Logger

	// gone is set once the file has been removed or renamed.
	gone bool
}

// NewFollowSource opens path and starts watching it for writes.
func NewFollowSource(path string, clock Clock, logger ports.Logger) (*FollowSource, error) {
	if clock == nil {
		clock = time.Now
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// Watch before the first read so no append can slip between the two.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		f.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &FollowSource{
		path:    path,
		file:    f,
		reader:  bufio.NewReader(f),
		watcher: watcher,
		clock:   clock,
		logger:  logger,
	}, nil
}

// Next returns the next complete line, waiting for appends as needed.
func (s *FollowSource) Next(ctx context.Context) (domain.Command, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Command{}, err
		}

		chunk, err := s.reader.ReadString('\n')
		s.partial.WriteString(chunk)
		if err == nil {
			line := strings.TrimRight(s.partial.String(), "\r\n")
			s.partial.Reset()
			return domain.NewCommand(line, s.clock()), nil
		}
		if !errors.Is(err, io.EOF) {
			return domain.Command{}, fmt.Errorf("read %s: %w", s.path, err)
		}

		if s.gone {
			// The last line of a vanished file may lack its newline.
			if s.partial.Len() > 0 {
				line := strings.TrimRight(s.partial.String(), "\r")
				s.partial.Reset()
				return domain.NewCommand(line, s.clock()), nil
			}
			return domain.Command{}, ports.ErrSourceExhausted
		}

		if err := s.wait(ctx); err != nil {
			if !errors.Is(err, ports.ErrSourceExhausted) {
				return domain.Command{}, err
			}
			// Drain what was written before the file went away.
			s.gone = true
		}
	}
}

// wait blocks until the file changes.
func (s *FollowSource) wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-s.watcher.Events:
			if !ok {
				return ports.ErrSourceExhausted
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 || s.unlinked(event) {
				s.logger.Info("followed file went away", ports.String("path", s.path))
				return ports.ErrSourceExhausted
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				return nil
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return ports.ErrSourceExhausted
			}
			s.logger.Warn("follow watcher error", ports.String("path", s.path), ports.Err(err))
		}
	}
}

// unlinked reports whether a chmod event is the unlink of the file.
// On Linux an open file is only reported removed once its last descriptor
// closes; the unlink itself shows up as a chmod.
func (s *FollowSource) unlinked(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Chmod) {
		return false
	}
	_, err := os.Stat(s.path)
	return errors.Is(err, fs.ErrNotExist)
}

// Close stops watching and closes the file.
func (s *FollowSource) Close() error {
	werr := s.watcher.Close()
	ferr := s.file.Close()
	return errors.Join(werr, ferr)
}
