package conn

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLazyDialsOnceUnderConcurrency(t *testing.T) {
	var dials atomic.Int32
	l := NewLazy(func(context.Context) (*int, error) {
		dials.Add(1)
		v := 42
		return &v, nil
	}, nil)

	var wg sync.WaitGroup
	results := make([]*int, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := l.Get(context.Background())
			if err != nil {
				t.Errorf("get: %v", err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	if dials.Load() != 1 {
		t.Fatalf("expected exactly one dial, got %d", dials.Load())
	}
	for i, v := range results {
		if v != results[0] {
			t.Fatalf("result %d is a different handle", i)
		}
	}
}

func TestLazyDoesNotCacheFailure(t *testing.T) {
	var calls int
	l := NewLazy(func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("refused")
		}
		return "db", nil
	}, nil)

	if _, err := l.Get(context.Background()); err == nil {
		t.Fatal("expected first dial to fail")
	}
	if l.Established() {
		t.Fatal("failed dial must not mark handle established")
	}
	v, err := l.Get(context.Background())
	if err != nil || v != "db" {
		t.Fatalf("expected retry to succeed, got %q %v", v, err)
	}
}

func TestLazyClose(t *testing.T) {
	var closed string
	l := NewLazy(func(context.Context) (string, error) { return "db", nil }, func(v string) error {
		closed = v
		return nil
	})

	if err := l.Close(); err != nil {
		t.Fatalf("close before dial: %v", err)
	}
	if closed != "" {
		t.Fatal("close must not release an undialed resource")
	}
	if _, err := l.Get(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestLazyWaiterHonoursDeadlineDuringSlowDial(t *testing.T) {
	release := make(chan struct{})
	dialing := make(chan struct{})
	l := NewLazy(func(context.Context) (string, error) {
		close(dialing)
		<-release
		return "db", nil
	}, nil)

	first := make(chan error, 1)
	go func() {
		_, err := l.Get(context.Background())
		first <- err
	}()
	<-dialing

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := l.Get(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if waited := time.Since(start); waited > 500*time.Millisecond {
		t.Fatalf("waiter blocked %v past a 50ms deadline", waited)
	}
	if l.Established() {
		t.Fatal("handle must not be established while the dial is pending")
	}

	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first get: %v", err)
	}
	if v, err := l.Get(context.Background()); err != nil || v != "db" {
		t.Fatalf("expected shared handle after dial, got %q %v", v, err)
	}
}

func TestLazyDialerHonoursOwnDeadline(t *testing.T) {
	l := NewLazy(func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Get(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	// The failed dial must not leave a stale in-flight marker behind.
	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	if _, err := l.Get(ctx2); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected second dial attempt to time out on its own, got %v", err)
	}
}

func TestLazyCloseDuringDialReleasesResult(t *testing.T) {
	release := make(chan struct{})
	dialing := make(chan struct{})
	var released string
	l := NewLazy(func(context.Context) (string, error) {
		close(dialing)
		<-release
		return "db", nil
	}, func(v string) error {
		released = v
		return nil
	})

	got := make(chan error, 1)
	go func() {
		_, err := l.Get(context.Background())
		got <- err
	}()
	<-dialing

	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	close(release)
	if err := <-got; !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed for a dial finishing after Close, got %v", err)
	}
	if released != "db" {
		t.Fatalf("expected late dial result to be released, got %q", released)
	}
}
