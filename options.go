package markup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jacoelho/markup/internal/background"
	"github.com/jacoelho/markup/internal/scheduler"
	"github.com/jacoelho/markup/pkg/htmltext"
)

// DefaultMaxInternEntries bounds the interner for unknown tag and attribute names.
const DefaultMaxInternEntries = 4096

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved(def int) int {
	if !o.set || o.value == 0 {
		return def
	}
	return o.value
}

type durationOption struct {
	value time.Duration
	set   bool
}

func (o durationOption) resolved(def time.Duration) time.Duration {
	if !o.set || o.value == 0 {
		return def
	}
	return o.value
}

type boolOption struct {
	value bool
	set   bool
}

// EarlyResourceFunc reports whether a start tag is an early-resource directive.
// Consecutive directives are delivered together before any later content.
type EarlyResourceFunc func(tok *htmltext.Token) bool

// ParserOptions configures a DocumentParser. The zero value uses defaults.
type ParserOptions struct {
	logger           *slog.Logger
	scripts          ScriptHost
	gate             ResourceGate
	earlyResource    EarlyResourceFunc
	clock            func() time.Time
	encoding         string
	chunkSize        intOption
	chunkTokens      intOption
	maxInternEntries intOption
	maxTokenSize     intOption
	timeLimit        durationOption
	trackPositions   boolOption
	noEarlyResource  bool
}

type resolvedParserOptions struct {
	logger           *slog.Logger
	scripts          ScriptHost
	gate             ResourceGate
	background       []background.Option
	scheduler        []scheduler.Option
	maxInternEntries int
}

// NewParserOptions returns a default, valid options value.
func NewParserOptions() ParserOptions {
	return ParserOptions{}
}

// Validate validates option values.
func (o ParserOptions) Validate() error {
	_, err := o.withDefaults()
	return err
}

// Logger returns the configured logger, or a discarding logger when unset.
func (o ParserOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

// Encoding returns the forced encoding label, empty when sniffing.
func (o ParserOptions) Encoding() string {
	return o.encoding
}

// WithLogger sets the logger shared by the parser and its worker.
func (o ParserOptions) WithLogger(logger *slog.Logger) ParserOptions {
	o.logger = logger
	return o
}

// WithScriptHost sets the script execution collaborator.
func (o ParserOptions) WithScriptHost(host ScriptHost) ParserOptions {
	o.scripts = host
	return o
}

// WithResourceGate sets the collaborator that holds parsing until early
// resources are loaded.
func (o ParserOptions) WithResourceGate(gate ResourceGate) ParserOptions {
	o.gate = gate
	return o
}

// WithEarlyResource replaces the early-resource predicate (default <link rel=import>).
// A nil predicate disables early-resource batching.
func (o ParserOptions) WithEarlyResource(fn EarlyResourceFunc) ParserOptions {
	o.earlyResource = fn
	o.noEarlyResource = fn == nil
	return o
}

// WithEncoding forces the input encoding label instead of sniffing it.
func (o ParserOptions) WithEncoding(label string) ParserOptions {
	o.encoding = label
	return o
}

// WithChunkSize sets the number of tokens per chunk (0 uses default).
func (o ParserOptions) WithChunkSize(value int) ParserOptions {
	o.chunkSize = intOption{value: value, set: true}
	return o
}

// WithChunkTokens sets the number of tokens between time checks (0 uses default).
func (o ParserOptions) WithChunkTokens(value int) ParserOptions {
	o.chunkTokens = intOption{value: value, set: true}
	return o
}

// WithTimeLimit sets the time budget of one pump pass (0 uses default).
func (o ParserOptions) WithTimeLimit(value time.Duration) ParserOptions {
	o.timeLimit = durationOption{value: value, set: true}
	return o
}

// WithClock replaces time.Now for the time budget.
func (o ParserOptions) WithClock(now func() time.Time) ParserOptions {
	o.clock = now
	return o
}

// WithMaxInternEntries bounds the unknown-name interner (0 uses default).
func (o ParserOptions) WithMaxInternEntries(value int) ParserOptions {
	o.maxInternEntries = intOption{value: value, set: true}
	return o
}

// WithMaxTokenSize splits character runs longer than value bytes (0 means unlimited).
func (o ParserOptions) WithMaxTokenSize(value int) ParserOptions {
	o.maxTokenSize = intOption{value: value, set: true}
	return o
}

// WithTrackPositions controls whether tokens carry positions.
func (o ParserOptions) WithTrackPositions(value bool) ParserOptions {
	o.trackPositions = boolOption{value: value, set: true}
	return o
}

func (o ParserOptions) withDefaults() (resolvedParserOptions, error) {
	for _, check := range []struct {
		name  string
		value int
	}{
		{"chunk size", o.chunkSize.value},
		{"chunk tokens", o.chunkTokens.value},
		{"max intern entries", o.maxInternEntries.value},
		{"max token size", o.maxTokenSize.value},
	} {
		if check.value < 0 {
			return resolvedParserOptions{}, fmt.Errorf("%s must be >= 0, got %d", check.name, check.value)
		}
	}
	if o.timeLimit.value < 0 {
		return resolvedParserOptions{}, fmt.Errorf("time limit must be >= 0, got %s", o.timeLimit.value)
	}

	logger := o.Logger()
	tokenizer := []htmltext.Options{htmltext.MaxTokenSize(o.maxTokenSize.resolved(0))}
	if o.trackPositions.set {
		tokenizer = append(tokenizer, htmltext.TrackPositions(o.trackPositions.value))
	}
	bg := []background.Option{
		background.WithLogger(logger),
		background.WithChunkSize(o.chunkSize.resolved(background.DefaultChunkSize)),
		background.WithEncoding(o.encoding),
		background.WithTokenizerOptions(tokenizer...),
	}
	switch {
	case o.noEarlyResource:
		bg = append(bg, background.WithEarlyResource(nil))
	case o.earlyResource != nil:
		bg = append(bg, background.WithEarlyResource(background.EarlyResourceFunc(o.earlyResource)))
	}
	sched := []scheduler.Option{
		scheduler.WithChunkTokens(o.chunkTokens.resolved(scheduler.DefaultChunkTokens)),
		scheduler.WithTimeLimit(o.timeLimit.resolved(scheduler.DefaultTimeLimit)),
		scheduler.WithClock(o.clock),
	}
	return resolvedParserOptions{
		logger:           logger,
		scripts:          o.scripts,
		gate:             o.gate,
		background:       bg,
		scheduler:        sched,
		maxInternEntries: o.maxInternEntries.resolved(DefaultMaxInternEntries),
	}, nil
}
