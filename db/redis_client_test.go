package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorwatch/db"
)

// Test the Set and Get methods for MockRedisClient
func TestRedisClient_SetAndGet(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient(context.Background())},
		// Replace with a real Redis client configuration for integration testing
		// {"GoRedisClient", db.NewGoRedisClient(context.Background(), realRedisClient)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.NoError(t, test.client.Set("test-key", "test-value", time.Minute))

			retrieved, err := test.client.Get("test-key")

			require.NoError(t, err)
			assert.Equal(t, "test-value", retrieved)

			_, err = test.client.Get("missing")
			assert.ErrorIs(t, err, db.ErrNotFound)
		})
	}
}

func TestRedisClient_Hashes(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())

	require.NoError(t, client.HSet("h", "a", "1"))
	require.NoError(t, client.HSet("h", "b", "2"))

	v, err := client.HGet("h", "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	require.NoError(t, client.ReplaceHash("h", map[string]string{"c": "3"}, time.Hour))

	all, err := client.HGetAll("h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c": "3"}, all)
	assert.Equal(t, time.Hour, client.TTL("h"))

	_, err = client.HGet("h", "a")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestRedisClient_KeysAndDel(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())
	require.NoError(t, client.Set("wip_v1:a", "x", 0))
	require.NoError(t, client.HSet("wip_v1:b", "f", "y"))
	require.NoError(t, client.Set("other:c", "z", 0))

	keys, err := client.Keys("wip_v1:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"wip_v1:a", "wip_v1:b"}, keys)

	require.NoError(t, client.Del(keys...))
	keys, _ = client.Keys("wip_v1:*")
	assert.Empty(t, keys)
}

// Test Ping for MockRedisClient
func TestRedisClient_Ping(t *testing.T) {
	assert.NoError(t, db.NewMockRedisClient(context.Background()).Ping())
}
