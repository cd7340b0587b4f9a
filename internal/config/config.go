// Package config loads command configuration from CUE files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/jacoelho/markup"
)

//go:embed schema.cue
var schemaSource string

// Config is the decoded configuration. Fields absent from a file keep their
// defaults.
type Config struct {
	Log              Log    `json:"log"`
	Encoding         string `json:"encoding"`
	TimeLimit        string `json:"timeLimit"`
	ChunkSize        int    `json:"chunkSize"`
	ChunkTokens      int    `json:"chunkTokens"`
	MaxTokenSize     int    `json:"maxTokenSize"`
	MaxInternEntries int    `json:"maxInternEntries"`
	TrackPositions   bool   `json:"trackPositions"`
	EarlyResources   bool   `json:"earlyResources"`
}

// Log configures the command logger.
type Log struct {
	Level   string `json:"level"`
	Format  string `json:"format"`
	Journal bool   `json:"journal"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TrackPositions: true,
		EarlyResources: true,
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads and decodes the CUE file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse compiles data, validates it against the configuration schema and
// decodes it over Default.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config %s: %w", filename, err)
	}
	value = schema.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", filename, err)
	}
	cfg := Default()
	if err := value.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", filename, err)
	}
	if _, err := cfg.Duration(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

// Duration parses TimeLimit. An empty value is zero, meaning the default.
func (c Config) Duration() (time.Duration, error) {
	if c.TimeLimit == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TimeLimit)
	if err != nil {
		return 0, fmt.Errorf("time limit: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("time limit must be >= 0, got %s", d)
	}
	return d, nil
}

// ParserOptions maps the configuration onto parser options.
func (c Config) ParserOptions() (markup.ParserOptions, error) {
	d, err := c.Duration()
	if err != nil {
		return markup.ParserOptions{}, err
	}
	opts := markup.NewParserOptions().
		WithEncoding(c.Encoding).
		WithChunkSize(c.ChunkSize).
		WithChunkTokens(c.ChunkTokens).
		WithTimeLimit(d).
		WithMaxTokenSize(c.MaxTokenSize).
		WithMaxInternEntries(c.MaxInternEntries).
		WithTrackPositions(c.TrackPositions)
	if !c.EarlyResources {
		opts = opts.WithEarlyResource(nil)
	}
	return opts, opts.Validate()
}
