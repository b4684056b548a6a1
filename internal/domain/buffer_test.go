package domain

import (
	"testing"
	"time"
)

func TestBuffer_Packet(t *testing.T) {
	base := time.Unix(1700000000, 0)

	tests := []struct {
		name     string
		texts    []string
		wantOK   bool
		wantText string
	}{
		{
			name:   "empty buffer yields no packet",
			texts:  nil,
			wantOK: false,
		},
		{
			name:     "single command",
			texts:    []string{"cmd1"},
			wantOK:   true,
			wantText: "bulk: cmd1",
		},
		{
			name:     "empty texts are skipped",
			texts:    []string{"a", "", "b"},
			wantOK:   true,
			wantText: "bulk: a, b",
		},
		{
			name:     "leading empty text does not produce a separator",
			texts:    []string{"", "a"},
			wantOK:   true,
			wantText: "bulk: a",
		},
		{
			name:     "all empty texts produce an empty packet",
			texts:    []string{"", ""},
			wantOK:   true,
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer()
			for i, text := range tt.texts {
				b.Add(NewCommand(text, base.Add(time.Duration(i)*time.Second)))
			}

			p, ok := b.Packet()
			if ok != tt.wantOK {
				t.Fatalf("Packet() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if p.Text != tt.wantText {
				t.Errorf("Packet().Text = %q, want %q", p.Text, tt.wantText)
			}
			if !p.Timestamp.Equal(base) {
				t.Errorf("Packet().Timestamp = %v, want %v", p.Timestamp, base)
			}
			if p.Empty() != (tt.wantText == "") {
				t.Errorf("Packet().Empty() = %v", p.Empty())
			}
		})
	}
}

func TestBuffer_Reset(t *testing.T) {
	b := NewBuffer()
	b.Add(NewCommand("a", time.Now()))
	b.Add(NewCommand("b", time.Now()))

	if b.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", b.Size())
	}
	if b.First() == nil || b.First().Text != "a" {
		t.Fatalf("First() = %v, want a", b.First())
	}

	b.Reset()

	if !b.Empty() {
		t.Errorf("Empty() = false after Reset")
	}
	if b.First() != nil {
		t.Errorf("First() = %v after Reset, want nil", b.First())
	}
	if _, ok := b.Packet(); ok {
		t.Errorf("Packet() ok = true after Reset")
	}
}

func TestCommand_Markers(t *testing.T) {
	tests := []struct {
		text      string
		open      bool
		close     bool
		terminate bool
	}{
		{"{", true, false, false},
		{"}", false, true, false},
		{"EOF", false, false, true},
		{"eof", false, false, false},
		{" {", false, false, false},
		{"cmd", false, false, false},
	}

	for _, tt := range tests {
		c := NewCommand(tt.text, time.Time{})
		if c.IsBlockOpen() != tt.open {
			t.Errorf("Command(%q).IsBlockOpen() = %v, want %v", tt.text, c.IsBlockOpen(), tt.open)
		}
		if c.IsBlockClose() != tt.close {
			t.Errorf("Command(%q).IsBlockClose() = %v, want %v", tt.text, c.IsBlockClose(), tt.close)
		}
		if c.IsTerminate() != tt.terminate {
			t.Errorf("Command(%q).IsTerminate() = %v, want %v", tt.text, c.IsTerminate(), tt.terminate)
		}
	}
}
