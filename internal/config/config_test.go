package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseOverridesDefaults(t *testing.T) {
	src := `
encoding:  "windows-1252"
chunkSize: 250
timeLimit: "50ms"
log: {
	level:   "debug"
	journal: true
}
`
	got, err := Parse([]byte(src), "test.cue")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	want := Default()
	want.Encoding = "windows-1252"
	want.ChunkSize = 250
	want.TimeLimit = "50ms"
	want.Log.Level = "debug"
	want.Log.Journal = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	d, err := got.Duration()
	if err != nil || d != 50*time.Millisecond {
		t.Fatalf("Duration() = %v, %v, want 50ms", d, err)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	got, err := Parse(nil, "empty.cue")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown field", src: `chunkSiz: 10`},
		{name: "negative chunk size", src: `chunkSize: -1`},
		{name: "wrong type", src: `trackPositions: "yes"`},
		{name: "unknown log level", src: `log: level: "trace"`},
		{name: "bad duration", src: `timeLimit: "soon"`},
		{name: "syntax", src: `chunkSize: {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src), "bad.cue"); err == nil {
				t.Fatalf("Parse error = nil, want error")
			}
		})
	}
}

func TestLoadNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markup.cue")
	if err := os.WriteFile(path, []byte(`chunkTokens: 8`), 0o600); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.ChunkTokens != 8 {
		t.Fatalf("ChunkTokens = %d, want 8", cfg.ChunkTokens)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.cue"))
	if err == nil || !strings.Contains(err.Error(), "missing.cue") {
		t.Fatalf("Load missing error = %v, want error naming the file", err)
	}
}

func TestParserOptions(t *testing.T) {
	cfg := Default()
	cfg.EarlyResources = false
	cfg.TimeLimit = "1s"
	if _, err := cfg.ParserOptions(); err != nil {
		t.Fatalf("ParserOptions error = %v", err)
	}
	cfg.ChunkSize = -5
	if _, err := cfg.ParserOptions(); err == nil {
		t.Fatalf("ParserOptions error = nil, want error for negative chunk size")
	}
}
