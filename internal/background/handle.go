package background

import "sync/atomic"

// Handle is a revocable, non-owning reference to a Parser. Revoke is atomic,
// so a message from the worker that checks Get after revocation becomes a
// no-op without coordinating with the worker.
type Handle struct {
	p atomic.Pointer[Parser]
}

// NewHandle returns a live handle to p.
func NewHandle(p *Parser) *Handle {
	h := &Handle{}
	h.p.Store(p)
	return h
}

// Get returns the parser, or nil once the handle is revoked.
func (h *Handle) Get() *Parser {
	if h == nil {
		return nil
	}
	return h.p.Load()
}

// Revoke invalidates the handle and returns the parser it referred to, or nil
// when it was already revoked.
func (h *Handle) Revoke() *Parser {
	if h == nil {
		return nil
	}
	return h.p.Swap(nil)
}

// Valid reports whether the handle has not been revoked.
func (h *Handle) Valid() bool {
	return h.Get() != nil
}
