package router

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/handler"
	"mateswap/internal/adapter/api/middleware"
)

func SetupAdminRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := v1.Group("/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/notifications", adminHandler.ListNotifications)
	admin.PUT("/notifications/:id/read", adminHandler.MarkNotificationRead)
	admin.GET("/agent-requests", adminHandler.ListAgentRequests)
}
