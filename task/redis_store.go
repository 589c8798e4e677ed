package task

import (
	"context"
	"strconv"
	"time"

	"github.com/MrEthical07/taskauth/store"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces task keys when NewRedisStore gets an empty prefix.
const DefaultPrefix = "tt"

const setStatusScript = `
if redis.call("HGET", KEYS[1], "owner") ~= ARGV[1] then
  return 0
end
redis.call("HSET", KEYS[1], "status", ARGV[2])
return 1
`

var setStatusLua = redis.NewScript(setStatusScript)

const deleteScript = `
if redis.call("HGET", KEYS[1], "owner") ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("ZREM", KEYS[2], ARGV[2])
return 1
`

var deleteLua = redis.NewScript(deleteScript)

// RedisStore keeps tasks in Redis:
//
//	{<prefix>}:t:<taskID>   hash  {id, owner, task, priority, status, date_added}
//	{<prefix>}:o:<owner>    zset  taskID scored by date_added (ms)
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisStore returns a task store over client.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{redis: client, prefix: store.HashTag(prefix)}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":t:" + id
}

func (s *RedisStore) ownerKey(owner string) string {
	return s.prefix + ":o:" + owner
}

// Insert implements Store.
func (s *RedisStore) Insert(ctx context.Context, t *Task) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key(t.ID),
			"id", t.ID,
			"owner", t.Owner,
			"task", t.Text,
			"priority", string(t.Priority),
			"status", string(t.Status),
			"date_added", t.DateAdded.UnixMilli(),
		)
		pipe.ZAdd(ctx, s.ownerKey(t.Owner), redis.Z{
			Score:  float64(t.DateAdded.UnixMilli()),
			Member: t.ID,
		})
		return nil
	})
	return store.Unavailable(err)
}

// ListByOwner implements Store.
func (s *RedisStore) ListByOwner(ctx context.Context, owner string) ([]Task, error) {
	ids, err := s.redis.ZRevRange(ctx, s.ownerKey(owner), 0, -1).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}
	if len(ids) == 0 {
		return []Task{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, store.Unavailable(err)
	}

	tasks := make([]Task, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 || fields["owner"] != owner {
			continue
		}
		added, _ := strconv.ParseInt(fields["date_added"], 10, 64)
		tasks = append(tasks, Task{
			ID:        fields["id"],
			Owner:     fields["owner"],
			Text:      fields["task"],
			Priority:  Priority(fields["priority"]),
			Status:    Status(fields["status"]),
			DateAdded: time.UnixMilli(added).UTC(),
		})
	}
	return tasks, nil
}

// SetStatus implements Store.
func (s *RedisStore) SetStatus(ctx context.Context, owner, id string, status Status) error {
	if err := setStatusLua.Run(ctx, s.redis, []string{s.key(id)}, owner, string(status)).Err(); err != nil {
		return store.Unavailable(err)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, owner, id string) error {
	if err := deleteLua.Run(ctx, s.redis, []string{s.key(id), s.ownerKey(owner)}, owner, id).Err(); err != nil {
		return store.Unavailable(err)
	}
	return nil
}
