package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces slot keys in a shared Redis database.
const DefaultRedisPrefix = "usuarios:slot:"

// RedisRepository stores each slot as a plain string key `<prefix><name>`
// without expiry.
type RedisRepository struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisRepository(rdb redis.Cmdable, prefix string) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisRepository{rdb: rdb, prefix: prefix}
}

func (r *RedisRepository) key(name string) string {
	return r.prefix + name
}

func (r *RedisRepository) Get(ctx context.Context, name string) ([]byte, error) {
	v, err := r.rdb.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot[%s]: %w", name, err)
	}
	return v, nil
}

func (r *RedisRepository) Put(ctx context.Context, name string, value []byte) error {
	if err := r.rdb.Set(ctx, r.key(name), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to put slot[%s]: %w", name, err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, name string) error {
	if err := r.rdb.Del(ctx, r.key(name)).Err(); err != nil {
		return fmt.Errorf("failed to delete slot[%s]: %w", name, err)
	}
	return nil
}
