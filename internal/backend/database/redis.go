package database

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

type RedisDatabase struct {
	client *redis.Client
}

// NewRedisDatabase accepts either a redis:// URL or a bare host:port address.
func NewRedisDatabase(connectionString string) (*RedisDatabase, error) {
	var options *redis.Options
	if strings.Contains(connectionString, "://") {
		parsed, err := redis.ParseURL(connectionString)
		if err != nil {
			return nil, err
		}
		options = parsed
	} else {
		options = &redis.Options{Addr: connectionString}
	}
	return &RedisDatabase{client: redis.NewClient(options)}, nil
}

func (r *RedisDatabase) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return value, err
}

func (r *RedisDatabase) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisDatabase) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}
