package router

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/handler"
	"mateswap/internal/adapter/api/middleware"
)

func SetupEscrowRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	escrowHandler := handler.GetEscrowHandler()

	wallet := v1.Group("/chats/:id/messages/:messageId/wallet")
	wallet.Use(authMiddleware.Authenticate)
	wallet.POST("", escrowHandler.SubmitWallet)
	wallet.GET("", escrowHandler.GetWalletStatus)
}
