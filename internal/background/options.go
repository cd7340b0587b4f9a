package background

import (
	"log/slog"

	"github.com/jacoelho/markup/pkg/htmltext"
)

// DefaultChunkSize is the maximum number of tokens in one chunk.
const DefaultChunkSize = 1000

// EarlyResourceFunc reports whether a start tag is an early-resource directive.
type EarlyResourceFunc func(tok *htmltext.Token) bool

type config struct {
	logger        *slog.Logger
	earlyResource EarlyResourceFunc
	encoding      string
	tokenizer     []htmltext.Options
	chunkSize     int
}

// Option configures a Parser.
type Option func(*config)

// WithChunkSize sets the chunk bound.
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithEncoding forces the byte encoding by label instead of sniffing it.
func WithEncoding(label string) Option {
	return func(c *config) {
		c.encoding = label
	}
}

// WithEarlyResource replaces the early-resource predicate. A nil predicate
// disables early-resource batching.
func WithEarlyResource(fn EarlyResourceFunc) Option {
	return func(c *config) {
		c.earlyResource = fn
	}
}

// WithTokenizerOptions passes options to the tokenizer.
func WithTokenizerOptions(opts ...htmltext.Options) Option {
	return func(c *config) {
		c.tokenizer = append(c.tokenizer, opts...)
	}
}

// WithLogger sets the logger for worker diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		logger:        slog.New(slog.DiscardHandler),
		earlyResource: IsImportLink,
		chunkSize:     DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// IsImportLink matches <link rel=import>, the default early-resource directive.
func IsImportLink(tok *htmltext.Token) bool {
	if tok.Kind() != htmltext.KindStartTag || string(tok.Name()) != "link" {
		return false
	}
	for i := 0; i < tok.AttrCount(); i++ {
		name, value := tok.Attr(i)
		if string(name) == "rel" {
			return asciiEqualFold(value, "import")
		}
	}
	return false
}

func asciiEqualFold(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != s[i] {
			return false
		}
	}
	return true
}
