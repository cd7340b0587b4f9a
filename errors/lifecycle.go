package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a document parser lifecycle violation.
type ErrorCode string

const (
	// CodeDetached indicates the parser was used after Detach.
	CodeDetached ErrorCode = "parser-detached"
	// CodeStopped indicates input was supplied after the parser stopped.
	CodeStopped ErrorCode = "parser-stopped"
	// CodeNotStarted indicates input was supplied before Start.
	CodeNotStarted ErrorCode = "parser-not-started"
	// CodeAlreadyStarted indicates Start was called more than once.
	CodeAlreadyStarted ErrorCode = "parser-already-started"
)

// Sentinels for errors.Is. Any LifecycleError with the same code matches.
var (
	ErrDetached       error = &LifecycleError{Code: CodeDetached}
	ErrStopped        error = &LifecycleError{Code: CodeStopped}
	ErrNotStarted     error = &LifecycleError{Code: CodeNotStarted}
	ErrAlreadyStarted error = &LifecycleError{Code: CodeAlreadyStarted}
)

// LifecycleError reports an operation that the parser's current state does
// not allow. It signals a programming error in the caller.
//
//nolint:errname // public API name mirrors the parser lifecycle.
type LifecycleError struct {
	Code  ErrorCode
	Op    string
	State string
}

// NewLifecycle builds a LifecycleError for op attempted in state.
func NewLifecycle(code ErrorCode, op, state string) *LifecycleError {
	return &LifecycleError{Code: code, Op: op, State: state}
}

// Error formats the code, operation and state.
func (e *LifecycleError) Error() string {
	if e == nil {
		return "lifecycle <nil>"
	}
	msg := fmt.Sprintf("[%s]", e.Code)
	if e.Op != "" {
		msg += " " + e.Op
	}
	if e.State != "" {
		msg += fmt.Sprintf(" in state %s", e.State)
	}
	return msg
}

// Is matches any LifecycleError carrying the same code.
func (e *LifecycleError) Is(target error) bool {
	var other *LifecycleError
	if !errors.As(target, &other) || other == nil || e == nil {
		return false
	}
	return other.Code == e.Code
}

// AsLifecycle extracts a LifecycleError from err.
func AsLifecycle(err error) (*LifecycleError, bool) {
	if err == nil {
		return nil, false
	}
	var lifecycle *LifecycleError
	if errors.As(err, &lifecycle) && lifecycle != nil {
		return lifecycle, true
	}
	return nil, false
}
