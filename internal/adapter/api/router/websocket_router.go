package router

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers /v1/ws. The handler authenticates from the
// token query parameter itself.
func SetupWebSocketRouter(v1 *echo.Group) {
	wsHandler := handler.GetWebSocketHandler()
	v1.GET("/ws", wsHandler.HandleWebSocket)
}
