// Package ratelimit throttles mutating API requests per client IP.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Allower decides whether one more request under key is allowed
type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Redis is a fixed-window counter. Each window gets its own key, so the
// EXPIRE only garbage-collects old windows.
type Redis struct {
	rdb    redis.Cmdable
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedis allows limit requests per key in each window. The window must be positive.
func NewRedis(rdb redis.Cmdable, limit int64, window time.Duration) (*Redis, error) {
	if window <= 0 {
		return nil, fmt.Errorf("rate limit window must be positive, got %s", window)
	}
	return &Redis{rdb: rdb, limit: limit, window: window, now: time.Now}, nil
}

func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("rl:%s:%d", key, bucket)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= l.limit, nil
}

// Middleware limits non-GET requests. Limiter failures let the request through.
func Middleware(l Allower, logger logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			ok, err := l.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				logger.WithError(err).Warn("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
