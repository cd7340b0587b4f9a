package markup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jacoelho/markup/errors"
	"github.com/jacoelho/markup/internal/background"
	"github.com/jacoelho/markup/internal/scheduler"
	"github.com/jacoelho/markup/internal/state"
	"github.com/jacoelho/markup/pkg/htmlstream"
	"github.com/jacoelho/markup/pkg/htmltext"
)

const readBufferSize = 32 * 1024

// Stats reports parser activity. Read it on the loop goroutine or after Done.
type Stats struct {
	Names   htmlstream.InternStats
	Chunks  int
	Tokens  int
	Pumps   int
	Yields  int
	Scripts int
}

// DocumentParser feeds bytes to a background tokenizer and delivers the
// resulting tokens to a TreeBuilder on the loop goroutine, pausing for
// parser-blocking scripts, unloaded early resources and the time budget.
//
// Start, Write, Finish, Stop, Detach, ScriptExecutionCompleted and
// EarlyResourcesLoaded may be called from any goroutine. Tree construction
// callbacks always run on the loop goroutine.
type DocumentParser struct {
	loop     Loop
	tree     TreeBuilder
	finisher TreeFinisher
	scripts  ScriptHost
	gate     ResourceGate
	logger   *slog.Logger
	handle   *background.Handle
	sched    *scheduler.Scheduler
	conv     *htmlstream.Converter
	done     chan struct{}
	doneOnce sync.Once
	state    atomic.Uint32

	// Owned by the loop goroutine.
	queue      state.Queue[*background.Chunk]
	stats      Stats
	chunkIndex int
	pumping    bool
}

// New creates a parser in the Initial state.
func New(loop Loop, tree TreeBuilder, opts ParserOptions) (*DocumentParser, error) {
	if loop == nil {
		return nil, fmt.Errorf("new document parser: nil loop")
	}
	if tree == nil {
		return nil, fmt.Errorf("new document parser: nil tree builder")
	}
	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("new document parser: %w", err)
	}
	p := &DocumentParser{
		loop:    loop,
		tree:    tree,
		scripts: resolved.scripts,
		gate:    resolved.gate,
		logger:  resolved.logger,
		sched:   scheduler.New(loop, resolved.scheduler...),
		conv:    htmlstream.NewConverter(resolved.maxInternEntries),
		done:    make(chan struct{}),
		queue:   state.NewQueue[*background.Chunk](4),
	}
	if finisher, ok := tree.(TreeFinisher); ok {
		p.finisher = finisher
	}
	worker, err := background.New(p.onChunk, resolved.background...)
	if err != nil {
		return nil, fmt.Errorf("new document parser: %w", err)
	}
	p.handle = background.NewHandle(worker)
	return p, nil
}

// State returns the lifecycle state.
func (p *DocumentParser) State() State {
	return State(p.state.Load())
}

// Done is closed when the parser reaches Stopped or Detached.
func (p *DocumentParser) Done() <-chan struct{} {
	return p.done
}

// Stats returns a snapshot of parser activity.
func (p *DocumentParser) Stats() Stats {
	stats := p.stats
	stats.Names = p.conv.Stats()
	return stats
}

// Start launches the background tokenizer.
func (p *DocumentParser) Start() error {
	if !p.transitionFrom(StateInitial, StateParsing) {
		return p.misuse("start", errors.CodeAlreadyStarted)
	}
	if worker := p.handle.Get(); worker != nil {
		worker.Start()
	}
	return nil
}

// Write passes input bytes to the background tokenizer. It never blocks on
// parsing and always consumes all of b on success.
func (p *DocumentParser) Write(b []byte) (int, error) {
	if err := p.acceptingInput("write"); err != nil {
		return 0, err
	}
	worker := p.handle.Get()
	if worker == nil {
		return 0, p.misuse("write", errors.CodeStopped)
	}
	worker.OnBytes(b)
	return len(b), nil
}

// Finish marks the end of input.
func (p *DocumentParser) Finish() error {
	if err := p.acceptingInput("finish"); err != nil {
		return err
	}
	worker := p.handle.Get()
	if worker == nil {
		return p.misuse("finish", errors.CodeStopped)
	}
	worker.OnComplete()
	return nil
}

// ParseReader starts the parser if needed, copies r into it and finishes the
// input. It returns once r is drained; tree construction continues on the loop.
func (p *DocumentParser) ParseReader(ctx context.Context, r io.Reader) error {
	if p.State() == StateInitial {
		if err := p.Start(); err != nil {
			return err
		}
	}
	buf := make([]byte, readBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := p.Write(buf[:n]); werr != nil {
				return fmt.Errorf("parse reader: %w", werr)
			}
		}
		if err == io.EOF {
			return p.Finish()
		}
		if err != nil {
			return fmt.Errorf("parse reader: %w", err)
		}
	}
}

// Stop ends parsing. Chunks already produced are discarded and chunks still in
// flight from the worker are ignored on arrival.
func (p *DocumentParser) Stop() {
	if !p.transition(StateStopping) {
		return
	}
	p.shutdown(StateStopped)
}

// Detach moves the parser to the terminal Detached state. It is safe to call
// from inside ConstructTree.
func (p *DocumentParser) Detach() {
	if !p.transition(StateDetached) {
		return
	}
	p.shutdown(StateDetached)
}

// ScriptExecutionCompleted resumes parsing after a parser-blocking script.
// Resumption always happens in a later loop task.
func (p *DocumentParser) ScriptExecutionCompleted() {
	p.loop.Post(func() {
		if !p.transitionFrom(StateStoppingOnScript, StateParsing) {
			return
		}
		p.resume()
	})
}

// EarlyResourcesLoaded resumes parsing held by the ResourceGate.
func (p *DocumentParser) EarlyResourcesLoaded() {
	p.loop.Post(p.resume)
}

// onChunk runs on the worker goroutine.
func (p *DocumentParser) onChunk(chunk *background.Chunk) {
	if !p.handle.Valid() {
		return
	}
	p.loop.Post(func() { p.deliverChunk(chunk) })
}

func (p *DocumentParser) deliverChunk(chunk *background.Chunk) {
	if !p.handle.Valid() || p.halted() {
		return
	}
	p.stats.Chunks++
	p.queue.Push(chunk)
	if p.blocked() {
		return
	}
	p.pump()
}

func (p *DocumentParser) blocked() bool {
	return p.pumping ||
		p.State() == StateStoppingOnScript ||
		p.sched.IsScheduled() ||
		!p.gateOpen()
}

func (p *DocumentParser) gateOpen() bool {
	return p.gate == nil || p.gate.HaveEarlyResourcesLoaded()
}

func (p *DocumentParser) resume() {
	if p.pumping || p.halted() || p.State() == StateStoppingOnScript {
		return
	}
	if p.queue.Len() == 0 || !p.gateOpen() {
		return
	}
	p.sched.Cancel()
	p.pump()
}

func (p *DocumentParser) pump() {
	p.pumping = true
	defer func() { p.pumping = false }()
	p.stats.Pumps++
	sess := p.sched.NewSession()
	for {
		chunk, ok := p.queue.Peek()
		if !ok {
			return
		}
		if p.chunkIndex == 0 && !p.gateOpen() {
			return
		}
		for p.chunkIndex < len(chunk.Tokens) {
			if p.halted() {
				p.dropQueue()
				return
			}
			ct := &chunk.Tokens[p.chunkIndex]
			p.sched.CheckYield(sess, startsScript(ct))
			if sess.NeedsYield() {
				p.stats.Yields++
				p.logger.Debug("pump yield", "chunk", chunk.Seq, "index", p.chunkIndex)
				p.sched.ScheduleResume(p.resume)
				return
			}
			p.chunkIndex++
			if !p.processToken(ct) {
				return
			}
		}
		p.queue.Pop()
		p.chunkIndex = 0
	}
}

// processToken hands one token to the tree builder and reports whether the
// pump may continue.
func (p *DocumentParser) processToken(ct *htmltext.CompactToken) bool {
	tok := p.conv.FromCompact(ct)
	p.tree.ConstructTree(&tok)
	p.stats.Tokens++
	if p.halted() {
		p.dropQueue()
		return false
	}
	switch ct.Kind {
	case htmltext.KindEndOfFile:
		p.finish()
		return false
	case htmltext.KindEndTag:
		if p.scripts != nil && p.scripts.HasParserBlockingScript() {
			p.runBlockingScript()
			return false
		}
	}
	return true
}

func (p *DocumentParser) runBlockingScript() {
	if !p.transitionFrom(StateParsing, StateStoppingOnScript) {
		return
	}
	script, pos := p.scripts.TakeScriptToProcess()
	p.stats.Scripts++
	p.logger.Debug("parser blocked on script", "position", pos.String())
	p.scripts.RunScript(script, pos)
}

func (p *DocumentParser) finish() {
	if !p.transition(StateStopping) {
		return
	}
	p.dropQueue()
	if p.finisher != nil {
		p.finisher.FinishTree()
	}
	p.shutdown(StateStopped)
}

func (p *DocumentParser) shutdown(final State) {
	if worker := p.handle.Revoke(); worker != nil {
		worker.Stop()
	}
	if final == StateStopped {
		p.transition(StateStopped)
	}
	p.doneOnce.Do(func() { close(p.done) })
}

func (p *DocumentParser) dropQueue() {
	p.queue.Reset()
	p.chunkIndex = 0
}

func (p *DocumentParser) halted() bool {
	switch p.State() {
	case StateStopping, StateStopped, StateDetached:
		return true
	default:
		return false
	}
}

func (p *DocumentParser) acceptingInput(op string) error {
	switch p.State() {
	case StateInitial:
		return p.misuse(op, errors.CodeNotStarted)
	case StateStopping, StateStopped:
		return p.misuse(op, errors.CodeStopped)
	case StateDetached:
		return p.misuse(op, errors.CodeDetached)
	default:
		return nil
	}
}

func (p *DocumentParser) misuse(op string, code errors.ErrorCode) error {
	s := p.State()
	switch s {
	case StateDetached:
		code = errors.CodeDetached
	case StateStopped, StateStopping:
		if code == errors.CodeAlreadyStarted {
			code = errors.CodeStopped
		}
	}
	return errors.NewLifecycle(code, op, s.String())
}

func (p *DocumentParser) transitionFrom(from, to State) bool {
	if !p.state.CompareAndSwap(uint32(from), uint32(to)) {
		return false
	}
	p.logger.Debug("parser state", "from", from.String(), "to", to.String())
	return true
}

func (p *DocumentParser) transition(to State) bool {
	for {
		from := p.State()
		if !from.canTransition(to) {
			return false
		}
		if p.transitionFrom(from, to) {
			return true
		}
	}
}

func startsScript(ct *htmltext.CompactToken) bool {
	return ct.Kind == htmltext.KindEndTag && ct.Name == "script"
}
