package router

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"ecosprout/internal/adapter/api/handler"
	"ecosprout/internal/adapter/api/middleware"
	"ecosprout/internal/domain/entity"
)

func SetupItemRouter(api *echo.Group, authMiddleware *middleware.AuthMiddleware, listingCache middleware.ResponseCache) {
	itemHandler := handler.GetItemHandler()

	items := api.Group("/items")

	// Public routes
	items.GET("", itemHandler.ListItems, authMiddleware.OptionalAuth, middleware.CacheListing(listingCache))
	items.GET("/user/my-items", itemHandler.MyItems, authMiddleware.Authenticate)
	items.GET("/:id", itemHandler.GetItem)

	// Protected routes
	owner := items.Group("")
	owner.Use(authMiddleware.Authenticate)
	owner.POST("", itemHandler.CreateItem, middleware.RequireRole(entity.RoleSeller, entity.RoleBoth))
	owner.PUT("/:id", itemHandler.UpdateItem)
	owner.DELETE("/:id", itemHandler.DeleteItem)
	owner.POST("/:id/favorite", itemHandler.ToggleFavorite)
	owner.POST("/:id/images", itemHandler.UploadImage, echomiddleware.BodyLimit("6M"))
	owner.PUT("/:id/promote", itemHandler.PromoteItem)
}
