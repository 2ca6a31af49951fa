package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"ecosprout/internal/infrastructure/ratelimit"
	"ecosprout/pkg/errors"
	"ecosprout/pkg/logger"
	"ecosprout/pkg/response"
)

// RateLimit throttles requests per client IP. scope separates buckets when the
// same limiter type guards different route groups.
func RateLimit(limiter *ratelimit.RateLimiter, scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, retryAfter := limiter.Allow(scope + ":" + ip)
			if !allowed {
				logger.Warn("RATE LIMIT: %s request from %s rejected (retry in %v)", scope, ip, retryAfter)
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return response.Error(c, errors.TooManyRequests("Too many requests, please try again later"))
			}
			return next(c)
		}
	}
}
