package db

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"
)

// MockRedisClient simulates a Redis client for testing purposes. TTLs are
// recorded but never enforced.
type MockRedisClient struct {
	data    map[string]string            // Key-value store
	hashes  map[string]map[string]string // Hash store
	ttls    map[string]time.Duration
	mu      sync.RWMutex // Mutex for thread-safe operations
	context context.Context
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient(ctx context.Context) *MockRedisClient {
	return &MockRedisClient{
		data:    make(map[string]string),
		hashes:  make(map[string]map[string]string),
		ttls:    make(map[string]time.Duration),
		context: ctx,
	}
}

// Set stores a key-value pair in the mock Redis.
func (m *MockRedisClient) Set(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

// Get retrieves a value for a given key from the mock Redis.
func (m *MockRedisClient) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[key]
	if !exists {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MockRedisClient) Del(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.hashes, k)
		delete(m.ttls, k)
	}
	return nil
}

// Keys supports the glob patterns Redis KEYS does for the simple cases the
// DAO uses.
func (m *MockRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			out = append(out, k)
		}
	}
	for k := range m.hashes {
		if ok, _ := path.Match(pattern, k); ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MockRedisClient) HSet(key, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	h[field] = value
	return nil
}

func (m *MockRedisClient) HGet(key, field string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.hashes[key][field]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MockRedisClient) HGetAll(key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.hashes[key]))
	for f, v := range m.hashes[key] {
		out[f] = v
	}
	return out, nil
}

func (m *MockRedisClient) ReplaceHash(key string, fields map[string]string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(fields) == 0 {
		delete(m.hashes, key)
		delete(m.ttls, key)
		return nil
	}
	h := make(map[string]string, len(fields))
	for f, v := range fields {
		h[f] = v
	}
	m.hashes[key] = h
	m.ttls[key] = ttl
	return nil
}

func (m *MockRedisClient) Expire(key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttls[key] = ttl
	return nil
}

// TTL returns the ttl last recorded for key.
func (m *MockRedisClient) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttls[key]
}

// GetContext returns the mock Redis client's context.
func (m *MockRedisClient) GetContext() context.Context {
	return m.context
}

// Ping simulates a Redis Ping operation.
func (m *MockRedisClient) Ping() error {
	return nil
}

func (m *MockRedisClient) Close() error {
	return nil
}
