// Package background runs the tokenizer on a worker goroutine and delivers
// its output as ordered chunks of compact tokens.
package background

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jacoelho/markup/internal/eventloop"
	"github.com/jacoelho/markup/pkg/htmltext"
)

var scriptName = []byte("script")

// Chunk is an ordered batch of tokens. Chunks are numbered from 1 in the order
// they are produced; the worker never touches a chunk after handing it over.
type Chunk struct {
	Tokens []htmltext.CompactToken
	Seq    uint64
}

// Len reports the number of tokens in the chunk.
func (c *Chunk) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Tokens)
}

// Stats reports worker output. It is safe to read from any goroutine.
type Stats struct {
	Chunks uint64
	Tokens uint64
}

// Parser owns an input stream and tokenizer on its own goroutine. Bytes are
// pushed with OnBytes and OnComplete; chunks are passed to the sink on the
// worker goroutine.
type Parser struct {
	sink    func(*Chunk)
	worker  *eventloop.Loop
	done    chan struct{}
	cfg     config
	chunks  atomic.Uint64
	tokens  atomic.Uint64
	halted  atomic.Bool
	mu      sync.Mutex
	started bool
	stopped bool

	// Owned by the worker goroutine.
	in               *htmltext.InputStream
	tz               *htmltext.Tokenizer
	text             *textDecoder
	pending          []htmltext.CompactToken
	tok              htmltext.Token
	seq              uint64
	encodingLogged   bool
	sawEarlyResource bool
	completed        bool
}

// New creates a parser that delivers chunks to sink. It fails only when an
// encoding label is given and not recognized.
func New(sink func(*Chunk), opts ...Option) (*Parser, error) {
	if sink == nil {
		return nil, fmt.Errorf("background parser: nil sink")
	}
	cfg := newConfig(opts)
	in := htmltext.NewInputStream()
	text, err := newTextDecoder(in, cfg.encoding)
	if err != nil {
		return nil, fmt.Errorf("background parser: %w", err)
	}
	return &Parser{
		sink:   sink,
		worker: eventloop.New(eventloop.WithLogger(cfg.logger)),
		done:   make(chan struct{}),
		cfg:    cfg,
		in:     in,
		tz:     htmltext.NewTokenizer(cfg.tokenizer...),
		text:   text,
	}, nil
}

// Start launches the worker goroutine. Bytes posted before Start are kept.
func (p *Parser) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	go p.run()
}

func (p *Parser) run() {
	defer close(p.done)
	_ = p.worker.Run(context.Background())
}

// OnBytes copies buf and queues it for decoding.
func (p *Parser) OnBytes(buf []byte) {
	if len(buf) == 0 {
		return
	}
	data := bytes.Clone(buf)
	p.worker.Post(func() { p.appendBytes(data) })
}

// OnComplete marks the end of the byte source.
func (p *Parser) OnComplete() {
	p.worker.Post(p.complete)
}

// Stop discards queued work and ends the worker. It does not wait for the
// worker and may be called from any goroutine, any number of times.
func (p *Parser) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	p.halted.Store(true)
	p.worker.Close()
	if !started {
		close(p.done)
	}
}

// Done is closed once the worker goroutine has exited.
func (p *Parser) Done() <-chan struct{} {
	return p.done
}

// Stats reports the chunks and tokens delivered so far.
func (p *Parser) Stats() Stats {
	return Stats{Chunks: p.chunks.Load(), Tokens: p.tokens.Load()}
}

func (p *Parser) appendBytes(data []byte) {
	if p.completed {
		return
	}
	if err := p.text.Write(data); err != nil {
		p.cfg.logger.Warn("decode input", "error", err)
	}
	p.logEncoding()
	p.pumpTokenizer()
}

func (p *Parser) complete() {
	if p.completed {
		return
	}
	p.completed = true
	if err := p.text.Close(); err != nil {
		p.cfg.logger.Warn("decode input", "error", err)
	}
	p.logEncoding()
	p.in.Close()
	p.pumpTokenizer()
	p.flush("end")
	p.worker.Close()
}

func (p *Parser) logEncoding() {
	if p.encodingLogged || p.text.Name() == "" {
		return
	}
	p.encodingLogged = true
	p.cfg.logger.Debug("input encoding", "name", p.text.Name(), "forced", p.cfg.encoding != "")
}

func (p *Parser) pumpTokenizer() {
	for !p.halted.Load() && p.tz.Next(p.in, &p.tok) {
		p.process(&p.tok)
	}
}

func (p *Parser) process(tok *htmltext.Token) {
	if tok.Kind() == htmltext.KindStartTag {
		htmltext.SwitchMode(p.tz, tok)
		switch {
		case p.cfg.earlyResource != nil && p.cfg.earlyResource(tok):
			p.sawEarlyResource = true
		case p.sawEarlyResource:
			// Deliver the batch of directives before this tag.
			p.flush("early-resource")
			p.sawEarlyResource = false
		}
	}
	if p.pending == nil {
		p.pending = make([]htmltext.CompactToken, 0, min(p.cfg.chunkSize, DefaultChunkSize))
	}
	p.pending = append(p.pending, htmltext.NewCompactToken(tok))
	if tok.Kind() == htmltext.KindEndTag && bytes.Equal(tok.Name(), scriptName) {
		p.flush("script")
		return
	}
	if len(p.pending) >= p.cfg.chunkSize {
		p.flush("limit")
	}
}

func (p *Parser) flush(reason string) {
	if len(p.pending) == 0 {
		return
	}
	p.seq++
	chunk := &Chunk{Seq: p.seq, Tokens: p.pending}
	p.pending = nil
	p.chunks.Add(1)
	p.tokens.Add(uint64(len(chunk.Tokens)))
	p.cfg.logger.Debug("flush chunk", "seq", chunk.Seq, "tokens", len(chunk.Tokens), "reason", reason)
	p.sink(chunk)
}
