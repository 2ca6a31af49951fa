package router

import (
	"github.com/labstack/echo/v4"

	"ecosprout/internal/adapter/api/handler"
	"ecosprout/internal/adapter/api/middleware"
	"ecosprout/internal/domain/entity"
)

func SetupTransactionRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	transactionHandler := handler.GetTransactionHandler()

	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate)

	transactions.POST("", transactionHandler.CreateTransaction, middleware.RequireRole(entity.RoleBuyer, entity.RoleBoth))
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PATCH("/:id/status", transactionHandler.UpdateStatus)
	transactions.POST("/:id/rating", transactionHandler.RateTransaction)
	transactions.GET("/:id/logs", transactionHandler.GetTransactionLogs)
}
