package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/jacoelho/markup"
	"github.com/jacoelho/markup/internal/background"
	"github.com/jacoelho/markup/internal/eventloop"
	"github.com/jacoelho/markup/internal/xiter"
	"github.com/jacoelho/markup/pkg/htmlstream"
	"github.com/jacoelho/markup/pkg/htmltext"
)

// DefaultTimeout bounds the asynchronous engines.
const DefaultTimeout = 10 * time.Second

var errNilEngine = errors.New("nil engine")

// Engine tokenizes a document delivered in segments.
type Engine interface {
	Tokens(segments [][]byte) ([]htmltext.CompactToken, error)
}

// Case describes one differential tokenization scenario.
type Case struct {
	Name     string
	Segments [][]byte
}

// NewCase splits document into segments of at most size bytes. A size <= 0
// keeps the document whole.
func NewCase(name string, document []byte, size int) Case {
	return Case{Name: name, Segments: Split(document, size)}
}

// Result captures the token stream and error of one engine.
type Result struct {
	Err    error
	Tokens []htmltext.CompactToken
}

// Diff stores side-by-side outcomes.
type Diff struct {
	Left  Result
	Right Result
}

// Equal reports whether both sides are equivalent.
func (d Diff) Equal() bool {
	return Equivalent(d.Left, d.Right)
}

// RunCase executes one engine against one case.
func RunCase(engine Engine, tc Case) Result {
	if engine == nil {
		return Result{Err: errNilEngine}
	}
	tokens, err := engine.Tokens(tc.Segments)
	return Result{Tokens: tokens, Err: err}
}

// Compare runs both engines and returns a diff.
func Compare(left, right Engine, tc Case) Diff {
	return Diff{
		Left:  RunCase(left, tc),
		Right: RunCase(right, tc),
	}
}

// Equivalent checks whether two results describe the same token stream.
// Character runs split differently and positions are ignored.
func Equivalent(left, right Result) bool {
	if !equivalentError(left.Err, right.Err) {
		return false
	}
	return slices.EqualFunc(Normalize(left.Tokens), Normalize(right.Tokens), equalToken)
}

// Normalize merges adjacent character tokens and clears positions.
func Normalize(tokens []htmltext.CompactToken) []htmltext.CompactToken {
	out := make([]htmltext.CompactToken, 0, len(tokens))
	for _, tok := range tokens {
		tok.Pos = htmltext.Position{}
		if n := len(out); n > 0 && tok.Kind == htmltext.KindCharacter && out[n-1].Kind == htmltext.KindCharacter {
			out[n-1].Data += tok.Data
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Split cuts document into segments of at most size bytes.
func Split(document []byte, size int) [][]byte {
	if size <= 0 || size >= len(document) {
		return [][]byte{document}
	}
	return slices.Collect(slices.Chunk(document, size))
}

func equalToken(a, b htmltext.CompactToken) bool {
	return a.Kind == b.Kind &&
		a.Name == b.Name &&
		a.Data == b.Data &&
		a.SelfClosing == b.SelfClosing &&
		slices.Equal(a.Attrs, b.Attrs)
}

func equivalentError(left, right error) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return left.Error() == right.Error()
}

// Whole tokenizes the concatenated segments in one call.
type Whole struct {
	Options []htmltext.Options
}

// Tokens implements Engine.
func (e Whole) Tokens(segments [][]byte) ([]htmltext.CompactToken, error) {
	var doc []byte
	for _, seg := range segments {
		doc = append(doc, seg...)
	}
	return htmltext.Tokenize(string(doc), e.Options...), nil
}

// Streaming feeds segments to one tokenizer on the calling goroutine,
// draining it after each segment. UTF-8 sequences split across segments are
// carried to the next one.
type Streaming struct {
	Options []htmltext.Options
}

// Tokens implements Engine.
func (e Streaming) Tokens(segments [][]byte) ([]htmltext.CompactToken, error) {
	in := htmltext.NewInputStream()
	tz := htmltext.NewTokenizer(e.Options...)
	var (
		tok htmltext.Token
		out []htmltext.CompactToken
	)
	drain := func() {
		for tz.Next(in, &tok) {
			out = append(out, htmltext.NewCompactToken(&tok))
			htmltext.SwitchMode(tz, &tok)
		}
	}
	var carry []byte
	for _, seg := range segments {
		buf := append(carry, seg...)
		n := completeRunes(buf)
		in.Append(string(buf[:n]))
		carry = bytes.Clone(buf[n:])
		drain()
	}
	if len(carry) > 0 {
		in.Append(string(carry))
	}
	in.Close()
	drain()
	return out, nil
}

// completeRunes returns the length of the longest prefix of b that does not
// end inside a UTF-8 sequence.
func completeRunes(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if utf8.FullRune(b[i:]) {
				return len(b)
			}
			return i
		}
	}
	return len(b)
}

// Pipeline runs the background parser and flattens its chunks.
type Pipeline struct {
	Options []background.Option
	Timeout time.Duration
}

// Tokens implements Engine.
func (e Pipeline) Tokens(segments [][]byte) ([]htmltext.CompactToken, error) {
	chunks := make(chan *background.Chunk, 64)
	p, err := background.New(func(c *background.Chunk) { chunks <- c }, e.Options...)
	if err != nil {
		return nil, err
	}
	p.Start()
	defer p.Stop()
	for _, seg := range segments {
		p.OnBytes(seg)
	}
	p.OnComplete()

	timeout := time.NewTimer(cmpTimeout(e.Timeout))
	defer timeout.Stop()
	var collected [][]htmltext.CompactToken
	for {
		select {
		case c := <-chunks:
			collected = append(collected, c.Tokens)
		case <-p.Done():
			for {
				select {
				case c := <-chunks:
					collected = append(collected, c.Tokens)
				default:
					return xiter.Collect(xiter.Flatten(xiter.Slice(collected))), nil
				}
			}
		case <-timeout.C:
			return nil, fmt.Errorf("pipeline: no end of input after %s", cmpTimeout(e.Timeout))
		}
	}
}

// Document runs the full DocumentParser on a private event loop and converts
// the atomic tokens it delivers back to compact tokens.
type Document struct {
	Options markup.ParserOptions
	Timeout time.Duration
}

// Tokens implements Engine.
func (e Document) Tokens(segments [][]byte) ([]htmltext.CompactToken, error) {
	loop := eventloop.New()
	tree := &collector{}
	p, err := markup.New(loop, tree, e.Options)
	if err != nil {
		return nil, err
	}
	defer p.Stop()
	if err := p.Start(); err != nil {
		return nil, err
	}
	for _, seg := range segments {
		if _, err := p.Write(seg); err != nil {
			return nil, err
		}
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmpTimeout(e.Timeout))
	defer cancel()
	go func() {
		select {
		case <-p.Done():
		case <-ctx.Done():
		}
		loop.Close()
	}()
	if err := loop.Run(ctx); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	return tree.tokens, nil
}

type collector struct {
	tokens []htmltext.CompactToken
}

func (c *collector) ConstructTree(tok *htmlstream.Token) {
	c.tokens = append(c.tokens, compactFromAtomic(tok))
}

func compactFromAtomic(tok *htmlstream.Token) htmltext.CompactToken {
	ct := htmltext.CompactToken{
		Kind:        tok.Kind,
		Name:        tok.Name(),
		Data:        tok.Data,
		SelfClosing: tok.SelfClosing,
		Pos:         tok.Pos,
	}
	if len(tok.Attrs) > 0 {
		ct.Attrs = xiter.Collect(xiter.Map(xiter.Slice(tok.Attrs), func(a htmlstream.Attribute) htmltext.Attr {
			return htmltext.Attr{Name: a.Name, Value: a.Value}
		}))
	}
	return ct
}

func cmpTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
