package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/taskauth/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newSessionStoreTest(t *testing.T) (*RedisStore, *miniredis.Miniredis, *redis.Client) {
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
	return NewRedisStore(rdb, "ts"), mr, rdb
}

func TestUpsertByUserCreatesThenReplaces(t *testing.T) {
	s, _, _ := newSessionStoreTest(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Millisecond)

	first, outcome, err := s.UpsertByUser(ctx, "u-1", expiresAt)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if outcome != store.OutcomeCreated {
		t.Fatalf("expected created, got %v", outcome)
	}

	got, err := s.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("find first: %v", err)
	}
	if got.UserID != "u-1" || !got.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("unexpected record: %+v", got)
	}

	second, outcome, err := s.UpsertByUser(ctx, "u-1", expiresAt.Add(time.Hour))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if outcome != store.OutcomeReplaced {
		t.Fatalf("expected replaced, got %v", outcome)
	}
	if second.ID == first.ID {
		t.Fatal("expected replacement to carry a new identifier")
	}

	if _, err := s.FindByID(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected replaced record to be gone, got %v", err)
	}
	current, err := s.CurrentIDForUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("current id: %v", err)
	}
	if current != second.ID {
		t.Fatalf("expected pointer %q, got %q", second.ID, current)
	}
}

func TestUpsertDoesNotSetTTL(t *testing.T) {
	s, mr, _ := newSessionStoreTest(t)
	ctx := context.Background()

	sess, _, err := s.UpsertByUser(ctx, "u-1", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if ttl := mr.TTL(s.key(sess.ID)); ttl != 0 {
		t.Fatalf("expected no TTL, got %v", ttl)
	}
	if _, err := s.FindByID(ctx, sess.ID); err != nil {
		t.Fatalf("expected past-expiry record to remain readable: %v", err)
	}
}

func TestDeleteByIDIdempotent(t *testing.T) {
	s, _, rdb := newSessionStoreTest(t)
	ctx := context.Background()

	sess, _, err := s.UpsertByUser(ctx, "u-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.DeleteByID(ctx, sess.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.DeleteByID(ctx, sess.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := s.DeleteByID(ctx, ""); err != nil {
		t.Fatalf("empty id delete: %v", err)
	}

	if _, err := s.FindByID(ctx, sess.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if n, err := rdb.Exists(ctx, s.userKey("u-1")).Result(); err != nil || n != 0 {
		t.Fatalf("expected user pointer removed, exists=%d err=%v", n, err)
	}
}

func TestDeleteStaleIDKeepsCurrentPointer(t *testing.T) {
	s, _, _ := newSessionStoreTest(t)
	ctx := context.Background()

	stale, _, err := s.UpsertByUser(ctx, "u-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	current, _, err := s.UpsertByUser(ctx, "u-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.DeleteByID(ctx, stale.ID); err != nil {
		t.Fatalf("delete stale: %v", err)
	}
	if _, err := s.FindByID(ctx, current.ID); err != nil {
		t.Fatalf("expected current record to survive stale delete: %v", err)
	}
	if id, err := s.CurrentIDForUser(ctx, "u-1"); err != nil || id != current.ID {
		t.Fatalf("expected pointer %q, got %q err=%v", current.ID, id, err)
	}
}

func TestConcurrentUpsertsConvergeToOneRecord(t *testing.T) {
	s, _, rdb := newSessionStoreTest(t)
	ctx := context.Background()

	const workers = 16
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, _, err := s.UpsertByUser(ctx, "u-race", time.Now().Add(time.Hour))
			if err != nil {
				t.Errorf("upsert %d: %v", i, err)
				return
			}
			ids[i] = sess.ID
		}(i)
	}
	wg.Wait()

	keys, err := rdb.Keys(ctx, s.sessionKeyPrefix()+"*").Result()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected exactly one session record, got %d", len(keys))
	}

	resolvable := 0
	for _, id := range ids {
		if _, err := s.FindByID(ctx, id); err == nil {
			resolvable++
		}
	}
	if resolvable != 1 {
		t.Fatalf("expected exactly one resolvable id, got %d", resolvable)
	}
}

func TestFindByIDCorruptRecord(t *testing.T) {
	s, _, rdb := newSessionStoreTest(t)
	ctx := context.Background()

	if err := rdb.HSet(ctx, s.key("bad"), "v", "9", "id", "bad").Err(); err != nil {
		t.Fatalf("hset: %v", err)
	}
	if _, err := s.FindByID(ctx, "bad"); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestStoreUnavailable(t *testing.T) {
	s, mr, _ := newSessionStoreTest(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	mr.Close()

	if _, _, err := s.UpsertByUser(ctx, "u-1", time.Now()); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("upsert: expected ErrUnavailable, got %v", err)
	}
	if _, err := s.FindByID(ctx, "sid"); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("find: expected ErrUnavailable, got %v", err)
	}
	if err := s.DeleteByID(ctx, "sid"); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("delete: expected ErrUnavailable, got %v", err)
	}
	if _, err := s.Ping(ctx); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("ping: expected ErrUnavailable, got %v", err)
	}
}

func TestKeysShareOneHashTag(t *testing.T) {
	s, _, rdb := newSessionStoreTest(t)
	ctx := context.Background()

	for _, uid := range []string{"u-1", "u-2"} {
		if _, _, err := s.UpsertByUser(ctx, uid, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("upsert %s: %v", uid, err)
		}
	}
	if _, _, err := s.UpsertByUser(ctx, "u-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("reissue: %v", err)
	}

	keys, err := rdb.Keys(ctx, "*").Result()
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 4 {
		t.Fatalf("expected two records and two pointers, got %v", keys)
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, "{ts}:") {
			t.Fatalf("key %q is outside the {ts} hash tag", k)
		}
	}
}

func TestDeleteByIDRemovesRecordWithoutUser(t *testing.T) {
	s, _, rdb := newSessionStoreTest(t)
	ctx := context.Background()

	if err := rdb.HSet(ctx, s.key("orphan"), "v", "1", "id", "orphan").Err(); err != nil {
		t.Fatalf("hset: %v", err)
	}
	if err := s.DeleteByID(ctx, "orphan"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, err := rdb.Exists(ctx, s.key("orphan")).Result(); err != nil || n != 0 {
		t.Fatalf("expected record removed, exists=%d err=%v", n, err)
	}
}
