// Package redis provides a Redis-backed credential store for sessions
// shared between machines
package redis

import (
	"context"
	stderrors "errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/infrastructure/config"
	"github.com/nutriplan/client/internal/ports/outbound"
	"github.com/nutriplan/client/pkg/errors"
)

// NewClient creates a Redis client from configuration and checks the
// connection
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.Database,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// CredentialStore implements outbound.CredentialStore on Redis. Keys are
// namespaced with a prefix and never expire.
type CredentialStore struct {
	client goredis.Cmdable
	prefix string
	logger *zap.Logger
}

// NewCredentialStore creates a store over client
func NewCredentialStore(client goredis.Cmdable, prefix string, logger *zap.Logger) outbound.CredentialStore {
	return &CredentialStore{
		client: client,
		prefix: prefix,
		logger: logger.Named("redis-credentials"),
	}
}

// Get retrieves a value
func (s *CredentialStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if stderrors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("Credential get failed", zap.String("key", key), zap.Error(err))
		return "", false, errors.NewStorageError("get "+key, err)
	}
	return value, true, nil
}

// Set stores a value
func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		s.logger.Error("Credential set failed", zap.String("key", key), zap.Error(err))
		return errors.NewStorageError("set "+key, err)
	}
	return nil
}

// Delete removes a key
func (s *CredentialStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.Error("Credential delete failed", zap.String("key", key), zap.Error(err))
		return errors.NewStorageError("delete "+key, err)
	}
	return nil
}
