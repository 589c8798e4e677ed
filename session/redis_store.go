package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/taskauth/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces session keys when NewRedisStore gets an empty prefix.
const DefaultPrefix = "ts"

// upsertByUserScript swaps the user pointer from ARGV[1] (empty when the
// caller saw none) to ARGV[2]. KEYS[3], present only when ARGV[1] is set,
// is the record being replaced. It returns -1 when the pointer moved since
// the caller read it.
const upsertByUserScript = `
local current = redis.call("GET", KEYS[1]) or ""
if current ~= ARGV[1] then
  return -1
end
if #KEYS == 3 then
  redis.call("DEL", KEYS[3])
end
redis.call("HSET", KEYS[2], unpack(ARGV, 3))
redis.call("SET", KEYS[1], ARGV[2])
if #KEYS == 3 then
  return 1
end
return 0
`

var upsertByUserLua = redis.NewScript(upsertByUserScript)

// deleteByIDScript removes KEYS[1] and clears the user pointer KEYS[2] only
// while it still names ARGV[1].
const deleteByIDScript = `
local existed = redis.call("DEL", KEYS[1])
if redis.call("GET", KEYS[2]) == ARGV[1] then
  redis.call("DEL", KEYS[2])
end
return existed
`

var deleteByIDLua = redis.NewScript(deleteByIDScript)

// RedisStore keeps session records in Redis hashes:
//
//	{<prefix>}:s:<sessionID>  hash  {v, id, user_id, expires_at}
//	{<prefix>}:u:<userID>     string → current sessionID
//
// Every key shares the {<prefix>} hash tag, so the store works on Redis
// Cluster with all session keys on one slot. No TTL is set; records persist
// until replaced or deleted.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	newID  func() string
}

// NewRedisStore returns a store over client. The client is shared and
// dials lazily; the store never closes it.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{
		redis:  client,
		prefix: store.HashTag(prefix),
		newID:  uuid.NewString,
	}
}

func (s *RedisStore) sessionKeyPrefix() string {
	return s.prefix + ":s:"
}

func (s *RedisStore) userKeyPrefix() string {
	return s.prefix + ":u:"
}

func (s *RedisStore) key(sessionID string) string {
	return s.sessionKeyPrefix() + sessionID
}

func (s *RedisStore) userKey(userID string) string {
	return s.userKeyPrefix() + userID
}

// UpsertByUser implements Store. The pointer swap is optimistic: when
// another writer moves the pointer first, the read and swap run again.
//
//	Performance: 1 GET + 1 Lua EVALSHA per attempt.
func (s *RedisStore) UpsertByUser(ctx context.Context, userID string, expiresAt time.Time) (*Session, store.Outcome, error) {
	if userID == "" {
		return nil, 0, errors.New("session: user id is required")
	}

	sess := &Session{
		ID:        s.newID(),
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}
	fields := encodeFields(sess)
	userKey := s.userKey(userID)

	for {
		previous, err := s.redis.Get(ctx, userKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, 0, store.Unavailable(err)
		}

		keys := []string{userKey, s.key(sess.ID)}
		if previous != "" {
			keys = append(keys, s.key(previous))
		}
		args := append([]interface{}{previous, sess.ID}, fields...)
		swapped, err := upsertByUserLua.Run(ctx, s.redis, keys, args...).Int64()
		if err != nil {
			return nil, 0, store.Unavailable(err)
		}

		switch swapped {
		case 0:
			return sess, store.OutcomeCreated, nil
		case 1:
			return sess, store.OutcomeReplaced, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, store.Unavailable(err)
		}
	}
}

// FindByID implements Store.
//
//	Performance: 1 Redis HGETALL.
func (s *RedisStore) FindByID(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, store.ErrNotFound
	}

	fields, err := s.redis.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}
	if len(fields) == 0 {
		return nil, store.ErrNotFound
	}

	sess, err := decodeFields(fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, sessionID)
	}
	return sess, nil
}

// DeleteByID implements Store. The user pointer is cleared only when it
// still references sessionID.
//
//	Performance: 1 HGET + 1 Lua EVALSHA.
func (s *RedisStore) DeleteByID(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	key := s.key(sessionID)
	userID, err := s.redis.HGet(ctx, key, fieldUserID).Result()
	if errors.Is(err, redis.Nil) {
		// Absent, or a record too damaged to name its user.
		return store.Unavailable(s.redis.Del(ctx, key).Err())
	}
	if err != nil {
		return store.Unavailable(err)
	}

	if err := deleteByIDLua.Run(ctx, s.redis, []string{key, s.userKey(userID)}, sessionID).Err(); err != nil {
		return store.Unavailable(err)
	}
	return nil
}

// CurrentIDForUser returns the identifier of the user's live record.
func (s *RedisStore) CurrentIDForUser(ctx context.Context, userID string) (string, error) {
	sid, err := s.redis.Get(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", store.ErrNotFound
		}
		return "", store.Unavailable(err)
	}
	return sid, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *RedisStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), store.Unavailable(err)
	}
	return time.Since(start), nil
}
