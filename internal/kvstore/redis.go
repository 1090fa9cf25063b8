package kvstore

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Redis stores keys in a Redis instance under a configurable prefix.
// Useful when several shopfront processes on one machine should see the
// same cart.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to the given address and verifies the connection.
func NewRedis(addr string, db int, prefix string) (*Redis, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	if prefix == "" {
		prefix = "shopfront"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) key(key string) string {
	return r.prefix + ":" + key
}

// Load returns the stored value for key, if any.
func (r *Redis) Load(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return value, true, nil
}

// Save stores the value under key with no expiry. Session/cart lifetime
// is managed by the containers, not the store.
func (r *Redis) Save(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Absent keys are a no-op.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error { return r.client.Close() }
