package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/internal/infrastructure/metrics"
	apperrors "mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

const (
	logoKeyPrefix = "channel_logo:"
	// stored for channels with no logo document
	missingMarker = "-"

	DefaultNegativeTTL = 5 * time.Minute
)

// ChannelLogoCache is a read-through cache in front of the channelLogos
// collection. Redis errors never fail a lookup; they fall through to the
// underlying repository.
type ChannelLogoCache struct {
	next        repository.ChannelLogoRepository
	rdb         *redis.Client
	ttl         time.Duration
	negativeTTL time.Duration
}

func NewChannelLogoCache(next repository.ChannelLogoRepository, rdb *redis.Client, ttl, negativeTTL time.Duration) repository.ChannelLogoRepository {
	if rdb == nil {
		return next
	}
	if negativeTTL <= 0 {
		negativeTTL = DefaultNegativeTTL
	}
	return &ChannelLogoCache{next: next, rdb: rdb, ttl: ttl, negativeTTL: negativeTTL}
}

func LogoKey(channelID string) string {
	return logoKeyPrefix + channelID
}

func (c *ChannelLogoCache) Get(ctx context.Context, channelID string) (*entity.ChannelLogo, error) {
	key := LogoKey(channelID)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && cached == missingMarker:
		metrics.LogoCacheLookups.WithLabelValues("negative_hit").Inc()
		return nil, apperrors.NotFound("Channel logo", nil)
	case err == nil:
		metrics.LogoCacheLookups.WithLabelValues("hit").Inc()
		return &entity.ChannelLogo{ChannelID: channelID, LogoURL: cached}, nil
	case errors.Is(err, redis.Nil):
		metrics.LogoCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.LogoCacheLookups.WithLabelValues("error").Inc()
		logger.Warn("ChannelLogoCache: redis get %s: %v", key, err)
	}

	logo, err := c.next.Get(ctx, channelID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.store(ctx, key, missingMarker, c.negativeTTL)
		}
		return nil, err
	}

	c.store(ctx, key, logo.LogoURL, c.ttl)
	return logo, nil
}

func (c *ChannelLogoCache) store(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Warn("ChannelLogoCache: redis set %s: %v", key, err)
	}
}
