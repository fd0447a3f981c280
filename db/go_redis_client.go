package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// GoRedisClient struct holds the Redis client and context
type GoRedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewGoRedisClient wraps client. Connectivity is checked with Ping by the
// caller.
func NewGoRedisClient(ctx context.Context, client *redis.Client) *GoRedisClient {
	return &GoRedisClient{
		client: client,
		ctx:    ctx,
	}
}

func notFound(err error) error {
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	return err
}

// Set sets a key-value pair in Redis. A zero ttl keeps the key forever.
func (r *GoRedisClient) Set(key, value string, ttl time.Duration) error {
	return r.client.Set(r.ctx, key, value, ttl).Err()
}

// Get retrieves the value for a given key from Redis
func (r *GoRedisClient) Get(key string) (string, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	return val, notFound(err)
}

func (r *GoRedisClient) Del(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(r.ctx, keys...).Err()
}

func (r *GoRedisClient) Keys(pattern string) ([]string, error) {
	return r.client.Keys(r.ctx, pattern).Result()
}

func (r *GoRedisClient) HSet(key, field, value string) error {
	return r.client.HSet(r.ctx, key, field, value).Err()
}

func (r *GoRedisClient) HGet(key, field string) (string, error) {
	val, err := r.client.HGet(r.ctx, key, field).Result()
	return val, notFound(err)
}

func (r *GoRedisClient) HGetAll(key string) (map[string]string, error) {
	return r.client.HGetAll(r.ctx, key).Result()
}

// ReplaceHash deletes key and writes fields in one MULTI/EXEC so readers
// never observe a half-written map.
func (r *GoRedisClient) ReplaceHash(key string, fields map[string]string, ttl time.Duration) error {
	_, err := r.client.TxPipelined(r.ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(r.ctx, key)
		if len(fields) > 0 {
			values := make([]interface{}, 0, len(fields)*2)
			for f, v := range fields {
				values = append(values, f, v)
			}
			pipe.HSet(r.ctx, key, values...)
			if ttl > 0 {
				pipe.Expire(r.ctx, key, ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace hash %s: %w", key, err)
	}
	return nil
}

func (r *GoRedisClient) Expire(key string, ttl time.Duration) error {
	return r.client.Expire(r.ctx, key, ttl).Err()
}

func (r *GoRedisClient) GetContext() context.Context {
	return r.ctx
}

func (r *GoRedisClient) Ping() error {
	_, err := r.client.Ping(r.ctx).Result()
	return err
}

func (r *GoRedisClient) Close() error {
	return r.client.Close()
}
