package router

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/adapter/api/handler"
	"ecosprout/internal/adapter/api/middleware"
	"ecosprout/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()
	userHandler := handler.GetUserHandler()

	auth := api.Group("/auth")

	// Credential endpoints get their own, tighter bucket
	public := auth.Group("")
	if limiter != nil {
		public.Use(middleware.RateLimit(limiter, "auth"))
	}
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)

	protected := auth.Group("")
	protected.Use(authMiddleware.Authenticate)
	protected.GET("/me", authHandler.Me)
	protected.PUT("/profile", userHandler.UpdateProfile)
	protected.PUT("/password", userHandler.UpdatePassword)
}
