package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTaskServiceTest(t *testing.T) *Service {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	svc := NewService(NewRedisStore(rdb, "tt"))
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	var tick int
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return svc
}

func TestAddAndListNewestFirst(t *testing.T) {
	svc := newTaskServiceTest(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "u-1", "  write report ", PriorityHigh)
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	if first.Text != "write report" || first.Status != StatusInProgress {
		t.Fatalf("unexpected task: %+v", first)
	}
	second, err := svc.Add(ctx, "u-1", "review", PriorityLow)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if _, err := svc.Add(ctx, "u-2", "someone else's", PriorityMedium); err != nil {
		t.Fatalf("add other owner: %v", err)
	}

	tasks, err := svc.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("expected newest first, got %q then %q", tasks[0].ID, tasks[1].ID)
	}
	if !tasks[1].DateAdded.Equal(first.DateAdded) {
		t.Fatalf("date mismatch: %v vs %v", tasks[1].DateAdded, first.DateAdded)
	}
}

func TestAddValidation(t *testing.T) {
	svc := newTaskServiceTest(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "", "x", PriorityLow); !errors.Is(err, ErrOwnerRequired) {
		t.Fatalf("expected ErrOwnerRequired, got %v", err)
	}
	if _, err := svc.Add(ctx, "u-1", "   ", PriorityLow); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for blank text, got %v", err)
	}
	if _, err := svc.Add(ctx, "u-1", "x", Priority("urgent")); !errors.Is(err, ErrInvalidTask) {
		t.Fatalf("expected ErrInvalidTask for bad priority, got %v", err)
	}
}

func TestOwnerScopedMutations(t *testing.T) {
	svc := newTaskServiceTest(t)
	ctx := context.Background()

	owned, err := svc.Add(ctx, "u-1", "mine", PriorityMedium)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := svc.MarkComplete(ctx, "u-2", owned.ID); err != nil {
		t.Fatalf("foreign complete: %v", err)
	}
	if err := svc.Delete(ctx, "u-2", owned.ID); err != nil {
		t.Fatalf("foreign delete: %v", err)
	}
	tasks, err := svc.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != StatusInProgress {
		t.Fatalf("foreign owner must not mutate task: %+v", tasks)
	}

	if err := svc.MarkComplete(ctx, "u-1", owned.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	tasks, err = svc.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks[0].Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", tasks[0].Status)
	}

	if err := svc.Delete(ctx, "u-1", owned.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks, err = svc.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}
