// Package scheduler decides when a pump pass over parsed tokens must yield
// back to the event loop, and schedules the deferred resume.
package scheduler

import (
	"math"
	"time"
)

const (
	// DefaultChunkTokens is the number of tokens processed between time checks.
	DefaultChunkTokens = 4096
	// DefaultTimeLimit is the wall time a pump pass may run before yielding.
	DefaultTimeLimit = 200 * time.Millisecond
)

// Poster queues a task to run later on the consumer goroutine.
type Poster interface {
	Post(task func()) bool
}

// Scheduler is owned by the consumer goroutine; none of its methods are safe
// for concurrent use.
type Scheduler struct {
	poster      Poster
	now         func() time.Time
	chunkTokens int
	timeLimit   time.Duration
	generation  uint64
	scheduled   bool
	yields      int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithChunkTokens sets how many tokens are processed between time checks.
func WithChunkTokens(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.chunkTokens = n
		}
	}
}

// WithTimeLimit sets the time budget of one pump pass.
func WithTimeLimit(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeLimit = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a scheduler that posts resumes through poster.
func New(poster Poster, opts ...Option) *Scheduler {
	s := &Scheduler{
		poster:      poster,
		now:         time.Now,
		chunkTokens: DefaultChunkTokens,
		timeLimit:   DefaultTimeLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session tracks one pump pass.
type Session struct {
	start           time.Time
	processedTokens int
	didSeeScript    bool
	needsYield      bool
}

// NewSession starts a pump pass. The first CheckYield records the start time.
func (s *Scheduler) NewSession() *Session {
	return &Session{processedTokens: math.MaxInt}
}

// NeedsYield reports whether the pass has used up its time budget.
func (sess *Session) NeedsYield() bool {
	return sess.needsYield
}

// ProcessedTokens reports tokens counted since the last time check.
func (sess *Session) ProcessedTokens() int {
	if sess.processedTokens == math.MaxInt {
		return 0
	}
	return sess.processedTokens
}

// CheckYield is called before each token. The clock is read only after
// chunkTokens tokens or when the token starts script execution.
func (s *Scheduler) CheckYield(sess *Session, startingScript bool) {
	if startingScript {
		sess.didSeeScript = true
	}
	if sess.processedTokens > s.chunkTokens || sess.didSeeScript {
		now := s.now()
		if sess.start.IsZero() {
			sess.start = now
		}
		sess.processedTokens = 0
		sess.didSeeScript = false
		if now.Sub(sess.start) > s.timeLimit {
			sess.needsYield = true
		}
	}
	sess.processedTokens++
}

// ScheduleResume posts resume as a zero-delay task. Only the most recent
// schedule runs; Cancel or a later ScheduleResume invalidates earlier ones.
func (s *Scheduler) ScheduleResume(resume func()) bool {
	s.generation++
	gen := s.generation
	s.scheduled = true
	s.yields++
	ok := s.poster.Post(func() {
		if !s.scheduled || s.generation != gen {
			return
		}
		s.scheduled = false
		resume()
	})
	if !ok {
		s.scheduled = false
	}
	return ok
}

// Cancel invalidates any scheduled resume.
func (s *Scheduler) Cancel() {
	s.generation++
	s.scheduled = false
}

// IsScheduled reports whether a resume is pending.
func (s *Scheduler) IsScheduled() bool {
	return s.scheduled
}

// Yields reports how many resumes were scheduled.
func (s *Scheduler) Yields() int {
	return s.yields
}
