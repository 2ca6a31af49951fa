package router

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/adapter/api/handler"
	"ecosprout/internal/adapter/api/middleware"
)

func SetupAdminRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	itemHandler := handler.GetItemHandler()
	transactionHandler := handler.GetTransactionHandler()

	admin := api.Group("/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.POST("/items/backfill-eco-scores", itemHandler.BackfillEcoScores)
	admin.GET("/transactions", transactionHandler.ListAdminTransactions)
}
