//go:build integration
// +build integration

package test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/taskauth"
	"github.com/MrEthical07/taskauth/session"
	"github.com/MrEthical07/taskauth/storage/gormstore"
	"github.com/MrEthical07/taskauth/task"
	"github.com/MrEthical07/taskauth/user"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// backendMode is one storage backend the integration suite runs against.
type backendMode struct {
	name  string
	setup func(t *testing.T) (session.Store, user.Store, task.Store)
}

func redisBackend(t *testing.T, rdb redis.UniversalClient) (session.Store, user.Store, task.Store) {
	t.Helper()
	return session.NewRedisStore(rdb, session.DefaultPrefix),
		user.NewRedisStore(rdb, user.DefaultPrefix),
		task.NewRedisStore(rdb, task.DefaultPrefix)
}

// backendModes returns the backends to test. miniredis and in-memory SQLite
// are always available; a real Redis is added when REDIS_ADDR is set and a
// PostgreSQL database when POSTGRES_DSN is set.
func backendModes(t *testing.T) []backendMode {
	t.Helper()
	modes := []backendMode{
		{
			name: "miniredis",
			setup: func(t *testing.T) (session.Store, user.Store, task.Store) {
				t.Helper()
				mr, err := miniredis.Run()
				if err != nil {
					t.Fatalf("miniredis: %v", err)
				}
				rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
				t.Cleanup(func() { _ = rdb.Close(); mr.Close() })
				return redisBackend(t, rdb)
			},
		},
		{
			name: "sqlite",
			setup: func(t *testing.T) (session.Store, user.Store, task.Store) {
				t.Helper()
				name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
				b := gormstore.NewSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
				t.Cleanup(func() { _ = b.Close() })
				return b.Sessions(), b.Users(), b.Tasks()
			},
		},
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		modes = append(modes, backendMode{
			name: "redis:" + addr,
			setup: func(t *testing.T) (session.Store, user.Store, task.Store) {
				t.Helper()
				rdb := redis.NewClient(&redis.Options{Addr: addr})
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := rdb.Ping(ctx).Err(); err != nil {
					t.Skipf("cannot connect to Redis at %s: %v", addr, err)
				}
				rdb.FlushDB(context.Background())
				t.Cleanup(func() { rdb.FlushDB(context.Background()); _ = rdb.Close() })
				return redisBackend(t, rdb)
			},
		})
	}

	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		modes = append(modes, backendMode{
			name: "postgres",
			setup: func(t *testing.T) (session.Store, user.Store, task.Store) {
				t.Helper()
				b := gormstore.NewPostgres(dsn)
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if _, err := b.Ping(ctx); err != nil {
					t.Skipf("cannot connect to PostgreSQL: %v", err)
				}
				t.Cleanup(func() { _ = b.Close() })
				return b.Sessions(), b.Users(), b.Tasks()
			},
		})
	}

	return modes
}

func newIntegrationEngine(t *testing.T, sessions session.Store, users user.Store) *taskauth.Engine {
	t.Helper()
	cfg := taskauth.DefaultConfig()
	cfg.JWT.Secret = []byte("integration-secret-integration-32")
	cfg.Password.Cost = bcrypt.MinCost
	engine, err := taskauth.New().
		WithConfig(cfg).
		WithSessionStore(sessions).
		WithUserStore(users).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

// uniqueEmail keeps runs against a shared database from colliding.
func uniqueEmail(t *testing.T, local string) string {
	t.Helper()
	return fmt.Sprintf("%s+%d@example.com", local, time.Now().UnixNano())
}

func nowPlusHour() time.Time {
	return time.Now().Add(time.Hour).UTC().Truncate(time.Second)
}
