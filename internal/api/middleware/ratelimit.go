package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identitylab/auth-service/internal/metrics"
)

// Limiter is the interface the middleware needs from the Redis-backed
// fixed-window counter.
type Limiter interface {
	Allow(ctx context.Context, scope, caller string, limit int64, window time.Duration) (bool, error)
}

// RateLimit rejects callers exceeding limit requests per window within
// a scope, keyed by client IP. A limiter error fails open: losing Redis
// must not take the login flow down with it.
func RateLimit(limiter Limiter, scope string, limit int64, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := limiter.Allow(c.Request().Context(), scope, c.RealIP(), limit, window)
			if err != nil {
				log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, failing open")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests, try again later")
			}
			return next(c)
		}
	}
}
