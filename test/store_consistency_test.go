//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MrEthical07/taskauth"
	"github.com/MrEthical07/taskauth/store"
	"github.com/MrEthical07/taskauth/task"
)

func TestBackendsAgreeOnSessionLifecycle(t *testing.T) {
	for _, mode := range backendModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			sessions, users, _ := mode.setup(t)
			engine := newIntegrationEngine(t, sessions, users)
			email := uniqueEmail(t, "alice")

			first := taskauth.NewMemoryTransport("")
			if !engine.Signup(ctx, first, taskauth.SignupForm{Email: email, Password: "pw", ConfirmPassword: "pw"}).Done {
				t.Fatalf("signup failed")
			}
			me := engine.CurrentUser(ctx, first)
			if me == nil || me.Email != email {
				t.Fatalf("unexpected current user %+v", me)
			}

			second := taskauth.NewMemoryTransport("")
			if !engine.Login(ctx, second, taskauth.LoginForm{Email: email, Password: "pw"}).Done {
				t.Fatalf("login failed")
			}
			if _, err := engine.ResolveSession(ctx, first); !errors.Is(err, taskauth.ErrNoSession) {
				t.Fatalf("expected first session orphaned, got %v", err)
			}
			if _, err := engine.ResolveSession(ctx, second); err != nil {
				t.Fatalf("expected second session valid: %v", err)
			}

			engine.Logout(ctx, second)
			if second.Token() != "" {
				t.Fatalf("expected token cleared")
			}
			if engine.CurrentUser(ctx, second) != nil {
				t.Fatalf("expected no user after logout")
			}
		})
	}
}

func TestBackendsDeleteIsIdempotent(t *testing.T) {
	for _, mode := range backendModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			sessions, _, _ := mode.setup(t)

			rec, _, err := sessions.UpsertByUser(ctx, "u-delete", nowPlusHour())
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if err := sessions.DeleteByID(ctx, rec.ID); err != nil {
				t.Fatalf("first delete: %v", err)
			}
			if err := sessions.DeleteByID(ctx, rec.ID); err != nil {
				t.Fatalf("second delete: %v", err)
			}
			if _, err := sessions.FindByID(ctx, rec.ID); !errors.Is(err, store.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestBackendsConcurrentUpsertLeavesOneRecord(t *testing.T) {
	for _, mode := range backendModes(t) {
		if mode.name == "sqlite" {
			// SQLite serializes writers with SQLITE_BUSY instead of waiting.
			continue
		}
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			sessions, _, _ := mode.setup(t)

			const n = 16
			ids := make([]string, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					rec, _, err := sessions.UpsertByUser(ctx, "u-race", nowPlusHour())
					if err != nil {
						t.Errorf("upsert %d: %v", i, err)
						return
					}
					ids[i] = rec.ID
				}(i)
			}
			wg.Wait()

			live := 0
			for _, id := range ids {
				if id == "" {
					continue
				}
				if _, err := sessions.FindByID(ctx, id); err == nil {
					live++
				}
			}
			if live != 1 {
				t.Fatalf("expected exactly one live record, got %d", live)
			}
		})
	}
}

func TestBackendsScopeTasksByOwner(t *testing.T) {
	for _, mode := range backendModes(t) {
		t.Run(mode.name, func(t *testing.T) {
			ctx := context.Background()
			_, _, tasks := mode.setup(t)
			svc := task.NewService(tasks)

			added, err := svc.Add(ctx, "owner-a", "ship it", task.PriorityHigh)
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			if err := svc.MarkComplete(ctx, "owner-b", added.ID); err != nil {
				t.Fatalf("foreign complete: %v", err)
			}
			if err := svc.Delete(ctx, "owner-b", added.ID); err != nil {
				t.Fatalf("foreign delete: %v", err)
			}

			list, err := svc.List(ctx, "owner-a")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 1 || list[0].Status != task.StatusInProgress {
				t.Fatalf("foreign owner changed the task: %+v", list)
			}
		})
	}
}
