package ingestion

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "docgate:ingestion:status"

// RedisStore keeps records in a Redis list so they survive restarts and are
// shared between API replicas.
type RedisStore struct {
	rdb redis.Cmdable
	key string
}

func NewRedisStore(rdb redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Append(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)

	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if err := s.rdb.RPush(ctx, s.key, b).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}

	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	raw, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()

	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	out := make([]Record, 0, len(raw))

	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, rec)
	}

	return out, nil
}
