package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const cacheSetTimeout = 5 * time.Second

// ttlWithJitter spreads expirations by up to ±15s so summaries cached
// for the same date do not all expire in the same instant.
func ttlWithJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Intn(30)-15)*time.Second
}

func cacheSet[T any](c Cacher, key string, value T, ttl time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheSetTimeout)
	defer cancel()

	if err := c.Set(ctx, key, value, ttlWithJitter(ttl)); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// cached wraps an aggregation in read-through caching. A hit is served
// immediately; a miss runs fn under singleflight so concurrent requests
// for the same date and district trigger one aggregation, then stores
// the result asynchronously. Cache transport errors degrade to a miss;
// an aggregation is never blocked on redis.
func cached[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T

	var hit T
	err := c.Get(ctx, key, &hit)
	switch {
	case err == nil:
		logger.Debug("cache hit", zap.String("key", key))
		return hit, nil
	case errors.Is(err, redis.Nil):
		logger.Debug("cache miss", zap.String("key", key))
	default:
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		go cacheSet(c, key, value, ttl, logger)
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	}

	value, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cached value type mismatch for key %q", key)
	}
	return value, nil
}
