package handler

import (
	"mateswap/internal/adapter/api/middleware"
	ws "mateswap/internal/infrastructure/websocket"
	"mateswap/internal/usecase"
)

// UseCases groups everything the HTTP layer calls into.
type UseCases struct {
	Product  *usecase.ProductUseCase
	Favorite *usecase.FavoriteUseCase
	Contact  *usecase.ContactUseCase
	Chat     *usecase.ChatUseCase
	Escrow   *usecase.EscrowUseCase
	Admin    *usecase.AdminUseCase
}

var (
	productHandler   *ProductHandler
	favoriteHandler  *FavoriteHandler
	contactHandler   *ContactHandler
	chatHandler      *ChatHandler
	escrowHandler    *EscrowHandler
	adminHandler     *AdminHandler
	healthHandler    *HealthHandler
	websocketHandler *WebSocketHandler
)

func Setup(uc UseCases, wsManager *ws.Manager, authMiddleware *middleware.AuthMiddleware) {
	productHandler = NewProductHandler(uc.Product)
	favoriteHandler = NewFavoriteHandler(uc.Favorite)
	contactHandler = NewContactHandler(uc.Contact)
	chatHandler = NewChatHandler(uc.Chat)
	escrowHandler = NewEscrowHandler(uc.Escrow)
	adminHandler = NewAdminHandler(uc.Admin)
	healthHandler = NewHealthHandler()
	websocketHandler = NewWebSocketHandler(wsManager, authMiddleware)
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetFavoriteHandler() *FavoriteHandler {
	return favoriteHandler
}

func GetContactHandler() *ContactHandler {
	return contactHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetEscrowHandler() *EscrowHandler {
	return escrowHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return websocketHandler
}
