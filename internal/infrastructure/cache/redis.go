package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"mateswap/pkg/logger"
)

// NewRedisClient connects to addr, which may be a redis:// URL or host:port.
// It returns nil when addr is empty or the server does not answer, and the
// callers fall back to running without Redis.
func NewRedisClient(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		return nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			logger.Warn("Redis connection warning: invalid REDIS_URL: %v (continuing without cache)", err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis connection warning: %v (continuing without cache)", err)
		_ = client.Close()
		return nil
	}

	logger.Info("Redis connected successfully")
	return client
}
