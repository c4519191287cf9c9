// Package redis backs the user registry with a Redis sorted set so that
// several relay instances can share one display-name space.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const activeUsersKey = "board:active_users"

type Registry struct {
	client *redis.Client
	ctx    context.Context
}

func NewRegistry(ctx context.Context, redisURL string) (*Registry, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Registry{client: client, ctx: ctx}, nil
}

// TryClaim claims name atomically. ZADD NX reports how many members were
// added, so a zero result means the name was already taken. The timestamp
// score keeps List in claim order.
func (r *Registry) TryClaim(name string) (bool, error) {
	if name == "" {
		return false, nil
	}

	added, err := r.client.ZAddNX(r.ctx, activeUsersKey, redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: name,
	}).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim username: %w", err)
	}
	return added == 1, nil
}

func (r *Registry) Release(name string) error {
	if err := r.client.ZRem(r.ctx, activeUsersKey, name).Err(); err != nil {
		return fmt.Errorf("failed to release username: %w", err)
	}
	return nil
}

func (r *Registry) List() ([]string, error) {
	users, err := r.client.ZRange(r.ctx, activeUsersKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list usernames: %w", err)
	}
	return users, nil
}

// Clear drops every claimed name. Used by integration tests.
func (r *Registry) Clear() error {
	return r.client.Del(r.ctx, activeUsersKey).Err()
}

func (r *Registry) Close() error {
	return r.client.Close()
}
