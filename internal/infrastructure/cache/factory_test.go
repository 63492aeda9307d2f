package cache

import (
	"context"
	"testing"

	"github.com/evcare/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewIdempotencyStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		cfg := &config.Config{Event: config.EventConfig{IdempotencyStore: "memory"}}
		store, err := NewIdempotencyStore(context.Background(), cfg, zap.NewNop())
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis is an error", func(t *testing.T) {
		cfg := &config.Config{
			Event: config.EventConfig{IdempotencyStore: "redis"},
			Redis: config.RedisConfig{Host: "127.0.0.1", Port: 1},
		}
		_, err := NewIdempotencyStore(context.Background(), cfg, zap.NewNop())
		require.Error(t, err)
	})

	t.Run("unknown store", func(t *testing.T) {
		cfg := &config.Config{Event: config.EventConfig{IdempotencyStore: "etcd"}}
		_, err := NewIdempotencyStore(context.Background(), cfg, zap.NewNop())
		require.Error(t, err)
	})
}
