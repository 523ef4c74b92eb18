package handler

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/middleware"
	"mateswap/internal/usecase"
	"mateswap/pkg/response"
)

type FavoriteHandler struct {
	favoriteUseCase *usecase.FavoriteUseCase
}

func NewFavoriteHandler(favoriteUseCase *usecase.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUseCase: favoriteUseCase,
	}
}

func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	favorites, err := h.favoriteUseCase.List(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favorites)
}

func (h *FavoriteHandler) GetFavoriteStatus(c echo.Context) error {
	productID := c.Param("productId")
	isFavorite, err := h.favoriteUseCase.IsFavorite(c.Request().Context(), middleware.IdentityFrom(c), productID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"product_id":  productID,
		"is_favorite": isFavorite,
	})
}

func (h *FavoriteHandler) ToggleFavorite(c echo.Context) error {
	productID := c.Param("productId")
	isFavorite, err := h.favoriteUseCase.Toggle(c.Request().Context(), middleware.IdentityFrom(c), productID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"product_id":  productID,
		"is_favorite": isFavorite,
	})
}
