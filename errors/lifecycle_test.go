package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestLifecycleErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		want string
		err  *LifecycleError
	}{
		{name: "code only", err: &LifecycleError{Code: CodeDetached}, want: "[parser-detached]"},
		{name: "with op", err: &LifecycleError{Code: CodeStopped, Op: "write"}, want: "[parser-stopped] write"},
		{
			name: "with state",
			err:  NewLifecycle(CodeNotStarted, "finish", "Initial"),
			want: "[parser-not-started] finish in state Initial",
		},
		{name: "nil", err: nil, want: "lifecycle <nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLifecycleErrorIs(t *testing.T) {
	err := fmt.Errorf("write chunk: %w", NewLifecycle(CodeDetached, "write", "Detached"))
	if !errors.Is(err, ErrDetached) {
		t.Fatalf("errors.Is(%v, ErrDetached) = false, want true", err)
	}
	if errors.Is(err, ErrStopped) {
		t.Fatalf("errors.Is(%v, ErrStopped) = true, want false", err)
	}
	if errors.Is(err, errors.New("parser-detached")) {
		t.Fatalf("errors.Is matched a plain error")
	}
}

func TestAsLifecycle(t *testing.T) {
	wrapped := fmt.Errorf("start: %w", NewLifecycle(CodeAlreadyStarted, "start", "Parsing"))
	got, ok := AsLifecycle(wrapped)
	if !ok {
		t.Fatalf("AsLifecycle ok = false, want true")
	}
	if got.Code != CodeAlreadyStarted || got.Op != "start" {
		t.Fatalf("AsLifecycle = %+v, want code %s op start", got, CodeAlreadyStarted)
	}
	if _, ok := AsLifecycle(nil); ok {
		t.Fatalf("AsLifecycle(nil) ok = true, want false")
	}
	if _, ok := AsLifecycle(errors.New("other")); ok {
		t.Fatalf("AsLifecycle(other) ok = true, want false")
	}
}
