// Package eventloop runs posted tasks one at a time on a single goroutine.
package eventloop

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jacoelho/markup/internal/state"
)

// Loop is a FIFO task runner. Post never blocks; tasks run in posting order on
// the goroutine that calls Run or RunPending.
type Loop struct {
	logger *slog.Logger
	wake   chan struct{}
	closed chan struct{}
	tasks  state.Queue[func()]
	mu     sync.Mutex
	once   sync.Once
	done   bool
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for loop diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an idle loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		logger: slog.New(slog.DiscardHandler),
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
		tasks:  state.NewQueue[func()](16),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues task. It reports false when the loop is closed and the task was
// dropped.
func (l *Loop) Post(task func()) bool {
	if task == nil {
		return false
	}
	l.mu.Lock()
	if l.done {
		l.mu.Unlock()
		return false
	}
	l.tasks.Push(task)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run executes tasks until ctx is done or Close is called. Tasks still queued
// at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			l.Close()
			return err
		}
		task, ok := l.next()
		if ok {
			task()
			continue
		}
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.closed:
			return nil
		case <-l.wake:
		}
	}
}

// RunPending runs queued tasks, including tasks they post, until the queue is
// empty. It returns the number of tasks run.
func (l *Loop) RunPending() int {
	n := 0
	for {
		task, ok := l.next()
		if !ok {
			return n
		}
		task()
		n++
	}
}

// Close stops the loop and drops queued tasks. It is idempotent.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.done = true
		dropped := l.tasks.Len()
		l.tasks.Drop()
		l.mu.Unlock()
		close(l.closed)
		if dropped > 0 {
			l.logger.Debug("event loop closed", "dropped", dropped)
		}
	})
}

// Closed returns a channel that is closed by Close.
func (l *Loop) Closed() <-chan struct{} {
	return l.closed
}

// Len reports the number of queued tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tasks.Len()
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return nil, false
	}
	return l.tasks.Pop()
}
