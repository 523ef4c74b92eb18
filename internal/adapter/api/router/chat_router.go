package router

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/handler"
	"mateswap/internal/adapter/api/middleware"
)

// SetupChatRouter registers chat routes. Participant checks happen in the
// use case since they need the chat document.
func SetupChatRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	v1.GET("/chat-list", chatHandler.ListChatEntries, authMiddleware.Authenticate)

	chats := v1.Group("/chats")
	chats.Use(authMiddleware.Authenticate)
	chats.GET("/:id", chatHandler.GetChat)
	chats.PUT("/:id/read", chatHandler.MarkRead)

	chats.GET("/:id/messages", chatHandler.GetMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)

	chats.POST("/:id/escrow-requests", chatHandler.SendEscrowRequest)
	chats.POST("/:id/agent-requests", chatHandler.RequestEscrowAgent)
}
