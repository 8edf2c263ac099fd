// Package redis wraps the go-redis client that backs the session draft
// store.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client wraps the go-redis client used for session draft storage.
type Client struct {
	*redis.Client
	logger *zap.Logger
}

// NewClient creates a Redis client and verifies connectivity. poolSize
// bounds concurrent connections; zero keeps the go-redis default. Drafts are
// small JSON blobs read and written once per form step, so the client stays
// deliberately plain: no pipelining helpers, no pub/sub.
func NewClient(ctx context.Context, addr, password string, db, poolSize int, logger *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:       addr,
		Password:   password,
		DB:         db,
		PoolSize:   poolSize,
		ClientName: "park-draft-store",
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	logger.Info("Redis client connected", zap.String("addr", addr))
	return &Client{Client: rdb, logger: logger}, nil
}
