package router

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/handler"
	"mateswap/internal/adapter/api/middleware"
)

func SetupFavoriteRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	favoriteHandler := handler.GetFavoriteHandler()

	favorites := v1.Group("/favorites")
	favorites.Use(authMiddleware.Authenticate)
	favorites.GET("", favoriteHandler.ListFavorites)
	favorites.GET("/:productId", favoriteHandler.GetFavoriteStatus)
	favorites.POST("/:productId/toggle", favoriteHandler.ToggleFavorite)
}
