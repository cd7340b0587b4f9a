package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTextHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := New(Options{Writer: &buf, Level: level})

	logger.Info("hidden")
	logger.Warn("shown", "chunk", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("output = %q, want info record filtered", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "chunk=3") {
		t.Fatalf("output = %q, want warn record", out)
	}

	buf.Reset()
	level.Set(slog.LevelDebug)
	logger.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Fatalf("output = %q, want debug record after level change", buf.String())
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Writer: &buf, JSON: true}).Info("flush chunk", "seq", 1)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("json.Unmarshal(%q) error = %v", buf.String(), err)
	}
	if record["msg"] != "flush chunk" || record["seq"] != float64(1) {
		t.Fatalf("record = %v, want msg and seq", record)
	}
}

func TestNewWithoutSinks(t *testing.T) {
	logger := New(Options{})
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatalf("logger without sinks is enabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "WARN", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel(loud) error = nil, want error")
	}
}

func TestJournalKey(t *testing.T) {
	if got := journalKey("chunk.seq-id"); got != "CHUNK_SEQ_ID" {
		t.Fatalf("journalKey = %q, want %q", got, "CHUNK_SEQ_ID")
	}
}
