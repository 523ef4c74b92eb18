package handler

import (
	"github.com/labstack/echo/v4"

	"mateswap/internal/adapter/api/middleware"
	"mateswap/internal/usecase"
	"mateswap/pkg/errors"
	"mateswap/pkg/response"
	"mateswap/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

func (h *ChatHandler) ListChatEntries(c echo.Context) error {
	pagination := utils.GetPaginationParams(c, 50)

	entries, total, err := h.chatUseCase.ListChatEntries(c.Request().Context(), middleware.IdentityFrom(c), pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, entries, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	chat, err := h.chatUseCase.GetChat(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, chat)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	messages, err := h.chatUseCase.Messages(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	if err := h.chatUseCase.MarkRead(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Chat marked as read"})
}

func (h *ChatHandler) SendEscrowRequest(c echo.Context) error {
	var req usecase.EscrowRequestInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendEscrowRequest(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) RequestEscrowAgent(c echo.Context) error {
	request, err := h.chatUseCase.RequestEscrowAgent(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, request)
}
