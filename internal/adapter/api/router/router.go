package router

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/adapter/api/middleware"
	"ecosprout/internal/infrastructure/ratelimit"
)

// Limits holds the per-scope request limiters. A nil limiter leaves its routes unthrottled.
type Limits struct {
	General *ratelimit.RateLimiter
	Auth    *ratelimit.RateLimiter
}

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	limits Limits,
	listingCache middleware.ResponseCache,
) {
	api := e.Group("/api")
	if limits.General != nil {
		api.Use(middleware.RateLimit(limits.General, "api"))
	}

	SetupAuthRouter(api, authMiddleware, limits.Auth)
	SetupItemRouter(api, authMiddleware, listingCache)
	SetupVerificationRouter(api, authMiddleware)
	SetupTransactionRouter(api, authMiddleware)
	SetupAdminRouter(api, authMiddleware, adminMiddleware)
	SetupHealthRouter(e)
}
