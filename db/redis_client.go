package db

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get and HGet on a cache miss.
var ErrNotFound = errors.New("key not found")

// RedisClient defines the cache commands the DAO layer relies on.
type RedisClient interface {
	Set(key, value string, ttl time.Duration) error
	Get(key string) (string, error)
	Del(keys ...string) error
	Keys(pattern string) ([]string, error)

	HSet(key, field, value string) error
	HGet(key, field string) (string, error)
	HGetAll(key string) (map[string]string, error)
	// ReplaceHash atomically swaps the whole hash for fields.
	ReplaceHash(key string, fields map[string]string, ttl time.Duration) error
	Expire(key string, ttl time.Duration) error

	GetContext() context.Context
	Ping() error
	Close() error
}
