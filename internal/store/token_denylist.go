// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-diary-keeper/internal/logger"
)

const revokedTokenKeyPrefix = "diary:revoked:"

// ErrDenylistUnavailable is returned when the revocation store cannot answer.
var ErrDenylistUnavailable = errors.New("token denylist unavailable")

// denylistClient is the part of the redis client used by the denylist.
type denylistClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisTokenDenylist implements [TokenDenylist] with one expiring key per
// revoked token id.
type RedisTokenDenylist struct {
	client denylistClient
	logger *logger.Logger
}

// NewRedisTokenDenylist connects to redisURL and pings the server.
func NewRedisTokenDenylist(ctx context.Context, redisURL string, log *logger.Logger) (*RedisTokenDenylist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Err(err).Str("func", "NewRedisTokenDenylist").Msg("invalid redis url")
		return nil, fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}

	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisTokenDenylist").Msg("error connecting redis (ping)")
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}
	log.Info().Str("func", "NewRedisTokenDenylist").Msg("connected to redis successfully")

	return &RedisTokenDenylist{client: client, logger: log}, nil
}

// Revoke marks tokenID as revoked for ttl. Non-positive ttls are ignored
// because the token has already expired.
func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, revokedTokenKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*RedisTokenDenylist.Revoke").Msg("error revoking token")
		return fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not expired since.
func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, revokedTokenKeyPrefix+tokenID).Result()
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*RedisTokenDenylist.IsRevoked").Msg("error checking token")
		return false, fmt.Errorf("%w: %w", ErrDenylistUnavailable, err)
	}
	return n > 0, nil
}

// Close releases the redis connection pool.
func (d *RedisTokenDenylist) Close() error {
	return d.client.Close()
}
