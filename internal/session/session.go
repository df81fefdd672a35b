// Package session keeps the denylist of logged-out tokens in Redis. Without a
// Redis client every call is a no-op and logout only drops the client's copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vietanh2810/ticktopia-api/internal/config"
)

const keyPrefix = "ticktopia:revoked:"

// NewRedisClient returns nil when the server does not answer a ping, letting
// callers run without the denylist and the rate limiter.
func NewRedisClient(conf *config.RedisConfig) *redis.Client {
	if conf == nil || conf.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis unavailable, running without it", zap.String("addr", conf.Addr), zap.Error(err))
		_ = client.Close()
		return nil
	}

	return client
}

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Revoke denylists the token id until the token would have expired anyway.
func (s *Store) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s.rdb == nil || tokenID == "" || ttl <= 0 {
		return nil
	}

	if err := s.rdb.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("s.rdb.Set -> %w", err)
	}

	return nil
}

func (s *Store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.rdb == nil || tokenID == "" {
		return false, nil
	}

	err := s.rdb.Get(ctx, keyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("s.rdb.Get -> %w", err)
	}

	return true, nil
}
