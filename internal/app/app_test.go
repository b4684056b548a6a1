package app

import (
	"context"
	"sync"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// recordingSink records packets and terminate calls, in order.
type recordingSink struct {
	mu     sync.Mutex
	name   string
	log    *[]string
	next   ports.Sink
	events []string
	pkts   []domain.Packet
	err    error
}

func (s *recordingSink) Handle(ctx context.Context, p domain.Packet) error {
	s.mu.Lock()
	s.events = append(s.events, p.Text)
	s.pkts = append(s.pkts, p)
	if s.log != nil {
		*s.log = append(*s.log, s.name+":"+p.Text)
	}
	s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.next != nil {
		return s.next.Handle(ctx, p)
	}
	return nil
}

func (s *recordingSink) Terminate(ctx context.Context) error {
	s.mu.Lock()
	s.events = append(s.events, "<terminate>")
	if s.log != nil {
		*s.log = append(*s.log, s.name+":<terminate>")
	}
	s.mu.Unlock()
	if s.next != nil {
		return s.next.Terminate(ctx)
	}
	return nil
}

func (s *recordingSink) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.events...)
}
