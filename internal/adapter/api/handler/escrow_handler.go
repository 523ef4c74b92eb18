package handler

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/middleware"
	"mateswap/internal/usecase"
	"mateswap/pkg/errors"
	"mateswap/pkg/response"
)

type EscrowHandler struct {
	escrowUseCase *usecase.EscrowUseCase
}

func NewEscrowHandler(escrowUseCase *usecase.EscrowUseCase) *EscrowHandler {
	return &EscrowHandler{
		escrowUseCase: escrowUseCase,
	}
}

func (h *EscrowHandler) SubmitWallet(c echo.Context) error {
	var req usecase.SubmitWalletInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.escrowUseCase.SubmitWallet(
		c.Request().Context(),
		middleware.IdentityFrom(c),
		c.Param("id"),
		c.Param("messageId"),
		req.Address,
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *EscrowHandler) GetWalletStatus(c echo.Context) error {
	status, err := h.escrowUseCase.WalletStatus(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), c.Param("messageId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, status)
}
