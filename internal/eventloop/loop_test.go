package eventloop

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunPendingOrder(t *testing.T) {
	l := New()
	var got []int
	for i := 0; i < 3; i++ {
		l.Post(func() {
			got = append(got, i)
			if i == 0 {
				l.Post(func() { got = append(got, 10) })
			}
		})
	}
	if n := l.RunPending(); n != 4 {
		t.Fatalf("RunPending = %d, want 4", n)
	}
	want := []int{0, 1, 2, 10}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRunUntilClose(t *testing.T) {
	l := New()
	errc := make(chan error, 1)
	go func() { errc <- l.Run(context.Background()) }()

	var ran atomic.Int32
	done := make(chan struct{})
	l.Post(func() { ran.Add(1) })
	l.Post(func() {
		ran.Add(1)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("tasks did not run")
	}
	l.Close()
	if err := <-errc; err != nil {
		t.Fatalf("Run error = %v, want nil", err)
	}
	if got := ran.Load(); got != 2 {
		t.Fatalf("ran = %d, want 2", got)
	}
	if l.Post(func() {}) {
		t.Fatalf("Post after Close = true, want false")
	}
}

func TestRunContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	select {
	case <-l.Closed():
	default:
		t.Fatalf("loop not closed after context cancel")
	}
}

func TestCloseDropsQueued(t *testing.T) {
	l := New()
	ran := false
	l.Post(func() { ran = true })
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	l.Close()
	l.Close()
	if n := l.RunPending(); n != 0 || ran {
		t.Fatalf("RunPending after Close = %d (ran=%v), want 0", n, ran)
	}
	if l.Post(nil) {
		t.Fatalf("Post(nil) = true, want false")
	}
}
