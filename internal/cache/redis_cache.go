package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "posledger:session:"

type RedisSessionRegistry struct {
	client *redis.Client
}

func NewRedisSessionRegistry(addr string, password string, db int) *RedisSessionRegistry {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisSessionRegistry{client: client}
}

// Client exposes the underlying connection so the document store can share it.
func (c *RedisSessionRegistry) Client() *redis.Client {
	return c.client
}

func (c *RedisSessionRegistry) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisSessionRegistry) Close() error {
	return c.client.Close()
}

func (c *RedisSessionRegistry) Put(ctx context.Context, sessionID string, userID string, ttl time.Duration) error {
	return c.client.Set(ctx, sessionKeyPrefix+sessionID, userID, ttl).Err()
}

func (c *RedisSessionRegistry) Lookup(ctx context.Context, sessionID string) (string, bool, error) {
	val, err := c.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisSessionRegistry) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
