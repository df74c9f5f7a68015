package localstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-core/pkg/redis"
)

// Redis persists values through the shared redis client so a guest identity
// survives process restarts. Keys are namespaced under sf:guest.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps the redis client. A zero TTL stores values without expiry.
func NewRedis(client *redis.Client, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) GetItem(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.client.GuestKey(key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *Redis) SetItem(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.client.GuestKey(key), value, r.ttl)
}

func (r *Redis) RemoveItem(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.client.GuestKey(key))
}
