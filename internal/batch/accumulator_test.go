package batch

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/bft-labs/bulk/internal/domain"
	"github.com/bft-labs/bulk/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// mockSink records delivered packets and terminate calls.
type mockSink struct {
	packets    []domain.Packet
	terminated int
	err        error
}

func (m *mockSink) Handle(ctx context.Context, p domain.Packet) error {
	m.packets = append(m.packets, p)
	return m.err
}

func (m *mockSink) Terminate(ctx context.Context) error {
	m.terminated++
	return nil
}

func (m *mockSink) texts() []string {
	out := make([]string, 0, len(m.packets))
	for _, p := range m.packets {
		out = append(out, p.Text)
	}
	return out
}

var base = time.Unix(1700000000, 0)

func cmdAt(text string, i int) domain.Command {
	return domain.NewCommand(text, base.Add(time.Duration(i)*time.Second))
}

func newAccumulator(t *testing.T, threshold int) (*Accumulator, *mockSink) {
	t.Helper()
	sink := &mockSink{}
	a, err := NewAccumulator(threshold, sink, mockLogger{})
	if err != nil {
		t.Fatalf("NewAccumulator() error = %v", err)
	}
	return a, sink
}

func TestNewAccumulator_InvalidThreshold(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := NewAccumulator(n, &mockSink{}, mockLogger{})
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("NewAccumulator(%d) error = %v, want ErrInvalidConfig", n, err)
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateInBlock, "InBlock"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestAccumulator_StaticFlushAtThreshold(t *testing.T) {
	ctx := context.Background()
	a, sink := newAccumulator(t, 3)

	for i, text := range []string{"a", "b"} {
		if err := a.Handle(ctx, cmdAt(text, i)); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
		if len(sink.packets) != 0 {
			t.Fatalf("flushed after %d commands, threshold is 3", i+1)
		}
	}

	if err := a.Handle(ctx, cmdAt("c", 2)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := sink.texts(); !reflect.DeepEqual(got, []string{"bulk: a, b, c"}) {
		t.Fatalf("packets = %v", got)
	}
	if a.Pending() != 0 {
		t.Errorf("Pending() = %d after flush, want 0", a.Pending())
	}
	if !sink.packets[0].Timestamp.Equal(base) {
		t.Errorf("Timestamp = %v, want %v", sink.packets[0].Timestamp, base)
	}
}

func TestAccumulator_StaticTermination(t *testing.T) {
	ctx := context.Background()
	a, sink := newAccumulator(t, 2)

	for i, text := range []string{"a", "b", "c", "EOF"} {
		if err := a.Handle(ctx, cmdAt(text, i)); err != nil {
			t.Fatalf("Handle(%q) error = %v", text, err)
		}
	}

	want := []string{"bulk: a, b", "bulk: c"}
	if got := sink.texts(); !reflect.DeepEqual(got, want) {
		t.Errorf("packets = %v, want %v", got, want)
	}
	if !sink.packets[1].Timestamp.Equal(base.Add(2 * time.Second)) {
		t.Errorf("second packet Timestamp = %v, want arrival of c", sink.packets[1].Timestamp)
	}
	if sink.terminated != 1 {
		t.Errorf("terminated = %d, want 1", sink.terminated)
	}
}

func TestAccumulator_TerminateWithEmptyBuffer(t *testing.T) {
	a, sink := newAccumulator(t, 2)

	if err := a.Handle(context.Background(), cmdAt("EOF", 0)); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(sink.packets) != 0 {
		t.Errorf("packets = %v, want none", sink.texts())
	}
	if sink.terminated != 1 {
		t.Errorf("terminated = %d, want 1", sink.terminated)
	}
}

func TestAccumulator_BlockFlushesRegardlessOfThreshold(t *testing.T) {
	ctx := context.Background()
	a, sink := newAccumulator(t, 2)

	if err := a.StartBlock(ctx); err != nil {
		t.Fatalf("StartBlock() error = %v", err)
	}
	for i, text := range []string{"cmd1", "cmd2", "cmd3", "cmd4"} {
		if err := a.Handle(ctx, cmdAt(text, i+1)); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}
	if len(sink.packets) != 0 {
		t.Fatalf("flushed inside block: %v", sink.texts())
	}
	if err := a.EndBlock(ctx); err != nil {
		t.Fatalf("EndBlock() error = %v", err)
	}

	want := []string{"bulk: cmd1, cmd2, cmd3, cmd4"}
	if got := sink.texts(); !reflect.DeepEqual(got, want) {
		t.Errorf("packets = %v, want %v", got, want)
	}
	if !sink.packets[0].Timestamp.Equal(base.Add(time.Second)) {
		t.Errorf("Timestamp = %v, want arrival of cmd1", sink.packets[0].Timestamp)
	}
	if a.State() != StateIdle {
		t.Errorf("State() = %v, want Idle", a.State())
	}
}

func TestAccumulator_BlockStartFlushesStaticBuffer(t *testing.T) {
	ctx := context.Background()
	a, sink := newAccumulator(t, 5)

	_ = a.Handle(ctx, cmdAt("a", 0))
	_ = a.Handle(ctx, cmdAt("b", 1))
	if err := a.StartBlock(ctx); err != nil {
		t.Fatalf("StartBlock() error = %v", err)
	}
	_ = a.Handle(ctx, cmdAt("c", 2))
	if err := a.EndBlock(ctx); err != nil {
		t.Fatalf("EndBlock() error = %v", err)
	}

	want := []string{"bulk: a, b", "bulk: c"}
	if got := sink.texts(); !reflect.DeepEqual(got, want) {
		t.Errorf("packets = %v, want %v", got, want)
	}
}

func TestAccumulator_TerminateInBlockDiscards(t *testing.T) {
	ctx := context.Background()
	a, sink := newAccumulator(t, 1)

	_ = a.StartBlock(ctx)
	_ = a.Handle(ctx, cmdAt("cmd1", 1))
	if err := a.Handle(ctx, cmdAt("EOF", 2)); err != nil {
		t.Fatalf("Handle(EOF) error = %v", err)
	}

	if len(sink.packets) != 0 {
		t.Errorf("packets = %v, want none", sink.texts())
	}
	if sink.terminated != 1 {
		t.Errorf("terminated = %d, want 1", sink.terminated)
	}
	if a.State() != StateIdle {
		t.Errorf("State() = %v, want Idle", a.State())
	}
	if got := a.Stats().CommandsDiscarded; got != 1 {
		t.Errorf("CommandsDiscarded = %d, want 1", got)
	}
}

func TestAccumulator_EmptyPacketSuppressed(t *testing.T) {
	ctx := context.Background()
	a, sink := newAccumulator(t, 2)

	_ = a.Handle(ctx, cmdAt("", 0))
	_ = a.Handle(ctx, cmdAt("", 1))

	if len(sink.packets) != 0 {
		t.Errorf("packets = %v, want none", sink.texts())
	}
	if a.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", a.Pending())
	}
	if got := a.Stats().PacketsSuppressed; got != 1 {
		t.Errorf("PacketsSuppressed = %d, want 1", got)
	}
}

func TestAccumulator_UnexpectedBlockEventsIgnored(t *testing.T) {
	ctx := context.Background()
	a, sink := newAccumulator(t, 3)

	_ = a.Handle(ctx, cmdAt("a", 0))
	if err := a.EndBlock(ctx); err != nil {
		t.Fatalf("EndBlock() error = %v", err)
	}
	if len(sink.packets) != 0 || a.Pending() != 1 {
		t.Fatalf("EndBlock in Idle changed the buffer")
	}

	_ = a.StartBlock(ctx)
	_ = a.Handle(ctx, cmdAt("b", 1))
	_ = a.StartBlock(ctx)
	if a.Pending() != 1 {
		t.Errorf("second StartBlock flushed the block, Pending() = %d", a.Pending())
	}
}

func TestAccumulator_SinkErrorPropagatesAndClears(t *testing.T) {
	ctx := context.Background()
	a, sink := newAccumulator(t, 1)
	sink.err = errors.New("disk full")

	err := a.Handle(ctx, cmdAt("a", 0))
	if err == nil || !errors.Is(err, sink.err) {
		t.Fatalf("Handle() error = %v, want wrapped sink error", err)
	}
	if a.Pending() != 0 {
		t.Errorf("Pending() = %d after failed flush, want 0", a.Pending())
	}
}
