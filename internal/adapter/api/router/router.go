package router

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	v1 := e.Group("/v1")

	SetupProductRouter(v1, authMiddleware)
	SetupFavoriteRouter(v1, authMiddleware)
	SetupChatRouter(v1, authMiddleware)
	SetupEscrowRouter(v1, authMiddleware)
	SetupAdminRouter(v1, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(v1)
	SetupHealthRouter(e)
}
