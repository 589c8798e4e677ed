package user

import (
	"context"
	"errors"

	"github.com/MrEthical07/taskauth/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces user keys when NewRedisStore gets an empty prefix.
const DefaultPrefix = "tu"

const (
	fieldID           = "id"
	fieldEmail        = "email"
	fieldPasswordHash = "password_hash"
)

// upsertByEmailScript binds KEYS[1] (the email index) to ARGV[1] when it is
// free, then writes the KEYS[2] hash. It returns -1 when the index already
// names a different id than the caller read.
const upsertByEmailScript = `
local id = redis.call("GET", KEYS[1])
local replaced = 1
if not id then
  redis.call("SET", KEYS[1], ARGV[1])
  replaced = 0
elseif id ~= ARGV[1] then
  return -1
end
redis.call("HSET", KEYS[2], "id", ARGV[1], "email", ARGV[2], "password_hash", ARGV[3])
return replaced
`

var upsertByEmailLua = redis.NewScript(upsertByEmailScript)

const updateHashScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], "password_hash", ARGV[1])
return 1
`

var updateHashLua = redis.NewScript(updateHashScript)

// RedisStore keeps users in Redis:
//
//	{<prefix>}:id:<userID>    hash  {id, email, password_hash}
//	{<prefix>}:email:<email>  string → userID
//
// All keys share the {<prefix>} hash tag.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	newID  func() string
}

// NewRedisStore returns a user store over client.
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

func (s *RedisStore) idKeyPrefix() string {
	return s.prefix + ":id:"
}

func (s *RedisStore) idKey(id string) string {
	return s.idKeyPrefix() + id
}

func (s *RedisStore) emailKey(email string) string {
	return s.prefix + ":email:" + email
}

// UpsertByEmail implements Store. An existing email keeps its id; a new one
// gets a fresh id. A concurrent first signup for the same email makes the
// loser re-read the index and replace the winner's digest.
func (s *RedisStore) UpsertByEmail(ctx context.Context, email, passwordHash string) (*User, store.Outcome, error) {
	if email == "" {
		return nil, 0, errors.New("user: email is required")
	}
	emailKey := s.emailKey(email)

	for {
		id, err := s.redis.Get(ctx, emailKey).Result()
		switch {
		case errors.Is(err, redis.Nil):
			id = s.newID()
		case err != nil:
			return nil, 0, store.Unavailable(err)
		}

		replaced, err := upsertByEmailLua.Run(
			ctx,
			s.redis,
			[]string{emailKey, s.idKey(id)},
			id,
			email,
			passwordHash,
		).Int64()
		if err != nil {
			return nil, 0, store.Unavailable(err)
		}

		switch replaced {
		case 0:
			return &User{ID: id, Email: email, PasswordHash: passwordHash}, store.OutcomeCreated, nil
		case 1:
			return &User{ID: id, Email: email, PasswordHash: passwordHash}, store.OutcomeReplaced, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, 0, store.Unavailable(err)
		}
	}
}

// FindByEmail implements Store. The lookup is exact; no case folding.
func (s *RedisStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, store.ErrNotFound
	}

	id, err := s.redis.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, store.Unavailable(err)
	}

	fields, err := s.redis.HMGet(ctx, s.idKey(id), fieldID, fieldEmail, fieldPasswordHash).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}
	u := &User{
		ID:           stringField(fields, 0),
		Email:        stringField(fields, 1),
		PasswordHash: stringField(fields, 2),
	}
	if u.ID == "" {
		return nil, store.ErrNotFound
	}
	return u, nil
}

// FindProfileByID implements Store. Only id and email are read.
func (s *RedisStore) FindProfileByID(ctx context.Context, id string) (*Profile, error) {
	if id == "" {
		return nil, store.ErrNotFound
	}

	fields, err := s.redis.HMGet(ctx, s.idKey(id), fieldID, fieldEmail).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}
	p := &Profile{
		ID:    stringField(fields, 0),
		Email: stringField(fields, 1),
	}
	if p.ID == "" {
		return nil, store.ErrNotFound
	}
	return p, nil
}

// UpdatePasswordHash implements Store.
func (s *RedisStore) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	updated, err := updateHashLua.Run(ctx, s.redis, []string{s.idKey(id)}, passwordHash).Int64()
	if err != nil {
		return store.Unavailable(err)
	}
	if updated == 0 {
		return store.ErrNotFound
	}
	return nil
}

func stringField(values []interface{}, i int) string {
	if i >= len(values) {
		return ""
	}
	v, _ := values[i].(string)
	return v
}
