// Package sqlitesink provides a packet sink backed by SQLite.
// Every non-empty packet becomes one row; unlike the file sink, packets
// flushed within the same second are all kept.
package sqlitesink

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/bft-labs/bulk/internal/adapters/fs"
	"github.com/bft-labs/bulk/pkg/bulk"
)

// Name is the sink name used in bulk.Config.Sinks.
const Name = "sqlite"

const schema = `CREATE TABLE IF NOT EXISTS packets (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	text       TEXT    NOT NULL,
	ts_unix_ms INTEGER NOT NULL,
	file_name  TEXT    NOT NULL
)`

// Config holds configuration options for the SQLite sink plugin.
type Config struct {
	// Path is the database file. Required.
	Path string
}

// Plugin implements bulk.Plugin.
type Plugin struct {
	mu   sync.Mutex
	path string
	db   *sql.DB
}

// New creates a new SQLite sink plugin with the given configuration.
// The database is opened when the sink is built.
func New(cfg Config) *Plugin {
	return &Plugin{path: cfg.Path}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return Name
}

// NewSink opens the database, applies the schema and returns a sink that
// owns next.
func (p *Plugin) NewSink(next bulk.Sink) (bulk.Sink, error) {
	db, err := p.open()
	if err != nil {
		return nil, err
	}
	return &Sink{db: db, next: next}, nil
}

func (p *Plugin) open() (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}
	if strings.TrimSpace(p.path) == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", bulk.ErrInvalidConfig)
	}

	dsn := filepath.Clean(p.path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	p.db = db
	return db, nil
}

// Shutdown closes the database. Safe to call more than once.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// Sink implements bulk.Sink by inserting one row per packet.
type Sink struct {
	db   *sql.DB
	next bulk.Sink
}

// Handle stores the packet and forwards it.
// Packets with empty text are skipped entirely and not forwarded.
func (s *Sink) Handle(ctx context.Context, p bulk.Packet) error {
	if p.Empty() {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO packets (text, ts_unix_ms, file_name) VALUES (?, ?, ?)`,
		p.Text,
		p.Timestamp.UTC().UnixMilli(),
		fs.FileName(p),
	)
	if err != nil {
		return fmt.Errorf("sqlite sink: insert packet: %w", err)
	}

	if s.next != nil {
		return s.next.Handle(ctx, p)
	}
	return nil
}

// Terminate forwards the end-of-stream signal.
func (s *Sink) Terminate(ctx context.Context) error {
	if s.next != nil {
		return s.next.Terminate(ctx)
	}
	return nil
}
