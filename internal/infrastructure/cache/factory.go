package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/evcare/backend/internal/domain/shared"
	"github.com/evcare/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient dials Redis and verifies the connection with a PING
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewIdempotencyStore builds the store selected by event.idempotency_store.
// A redis store that cannot be reached is an error; silently falling back
// would let two instances send the same notification twice.
func NewIdempotencyStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (shared.IdempotencyStore, error) {
	switch cfg.Event.IdempotencyStore {
	case "redis":
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis idempotency store", zap.String("addr", cfg.Redis.Addr()))
		return NewRedisIdempotencyStore(client, ""), nil
	case "memory", "":
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(5 * time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown idempotency store %q", cfg.Event.IdempotencyStore)
	}
}
