package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/middleware"
	"mateswap/internal/usecase"
	"mateswap/pkg/response"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

func limitParam(c echo.Context, def int) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 200 {
		return def
	}
	return limit
}

func (h *AdminHandler) ListNotifications(c echo.Context) error {
	unreadOnly := c.QueryParam("unread") == "true"

	notifications, err := h.adminUseCase.ListNotifications(c.Request().Context(), middleware.IdentityFrom(c), unreadOnly, limitParam(c, 50))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, notifications)
}

func (h *AdminHandler) MarkNotificationRead(c echo.Context) error {
	if err := h.adminUseCase.MarkNotificationRead(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Notification marked as read"})
}

func (h *AdminHandler) ListAgentRequests(c echo.Context) error {
	requests, err := h.adminUseCase.ListAgentRequests(c.Request().Context(), middleware.IdentityFrom(c), limitParam(c, 50))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, requests)
}
