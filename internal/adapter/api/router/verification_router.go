package router

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/adapter/api/handler"
	"ecosprout/internal/adapter/api/middleware"
	"ecosprout/internal/domain/entity"
)

func SetupVerificationRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	verificationHandler := handler.GetVerificationHandler()

	verification := api.Group("/verification")
	verification.Use(authMiddleware.Authenticate)

	verification.POST("/digilocker/initiate", verificationHandler.InitiateDigiLocker)
	verification.POST("/digilocker/complete", verificationHandler.CompleteDigiLocker)
	verification.GET("/status", verificationHandler.GetStatus)
	verification.PUT("/seller-profile", verificationHandler.UpdateSellerProfile,
		middleware.RequireRole(entity.RoleSeller, entity.RoleBoth))
}
