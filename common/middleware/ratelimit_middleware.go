package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fridaygt/fridaygt/common/ratelimit"
	"github.com/labstack/echo/v4"
)

// UserLimiter is the subset of ratelimit.Limiter used by the middleware
type UserLimiter interface {
	CheckUserLimit(ctx context.Context, userID string, limit int64, windowSec int) (*ratelimit.Result, error)
}

// KeyFunc extracts the rate-limit subject from the request; "" skips limiting
type KeyFunc func(c echo.Context) string

// UserRateLimit limits requests per user. Mutating methods only; reads are free.
// The limiter fails open: Redis errors let the request through.
func UserRateLimit(limiter UserLimiter, key KeyFunc, limit int64, windowSec int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodHead {
				return next(c)
			}

			userID := key(c)
			if userID == "" {
				return next(c)
			}

			result, err := limiter.CheckUserLimit(c.Request().Context(), userID, limit, windowSec)
			if err != nil {
				return next(c)
			}

			if !result.Allowed {
				c.Response().Header().Set("Retry-After", strconv.FormatInt(result.RetryAfterSeconds, 10))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "rate_limited",
					"message": "Too many changes, slow down and try again shortly.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"window_seconds":      windowSec,
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
