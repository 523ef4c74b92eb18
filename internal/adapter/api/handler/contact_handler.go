package handler

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/middleware"
	"mateswap/internal/usecase"
	"mateswap/pkg/response"
)

type ContactHandler struct {
	contactUseCase *usecase.ContactUseCase
}

func NewContactHandler(contactUseCase *usecase.ContactUseCase) *ContactHandler {
	return &ContactHandler{
		contactUseCase: contactUseCase,
	}
}

// ContactSeller starts the purchase conversation and tells the client where
// to go next.
func (h *ContactHandler) ContactSeller(c echo.Context) error {
	result, err := h.contactUseCase.ContactSeller(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	if result.Created {
		return response.Created(c, result)
	}
	return response.Success(c, result)
}
