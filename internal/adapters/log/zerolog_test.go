package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/bulk/internal/ports"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf))

	z.Info("packet flushed",
		ports.String("state", "Idle"),
		ports.Int("commands", 3),
		ports.Bool("block", false),
		ports.Duration("delay", time.Second),
		ports.Err(errors.New("boom")),
	)

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}

	if got["message"] != "packet flushed" {
		t.Errorf("message = %v", got["message"])
	}
	if got["level"] != "info" {
		t.Errorf("level = %v", got["level"])
	}
	if got["state"] != "Idle" {
		t.Errorf("state = %v", got["state"])
	}
	if got["commands"] != float64(3) {
		t.Errorf("commands = %v", got["commands"])
	}
	if got["error"] != "boom" {
		t.Errorf("error = %v", got["error"])
	}
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	z.Debug("hidden", ports.String("k", "v"))
	z.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("filtered levels produced output: %s", buf.String())
	}

	z.Warn("shown")
	if buf.Len() == 0 {
		t.Error("Warn produced no output")
	}
}

func TestNoopLogger(t *testing.T) {
	var l ports.Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x", ports.Err(errors.New("ignored")))
}
