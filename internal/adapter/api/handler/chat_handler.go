package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/response"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/utils"
)

type ChatHandler struct {
	chats ChatService
}

func NewChatHandler(chats ChatService) *ChatHandler {
	return &ChatHandler{
		chats: chats,
	}
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (h *ChatHandler) OpenChannel(c echo.Context) error {
	var input usecase.OpenChannelInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	entry, err := h.chats.OpenChannel(c.Request().Context(), middleware.SessionFrom(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, entry)
}

func (h *ChatHandler) Inbox(c echo.Context) error {
	entries, err := h.chats.Inbox(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, entries)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	limit := utils.GetLimit(c, usecase.DefaultMessageLimit, usecase.MaxMessageLimit)

	messages, err := h.chats.ListMessages(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

// SendMessage leaves blank-text checks to the use case so HTTP and WebSocket
// senders get the same EMPTY_MESSAGE error.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chats.SendMessage(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *ChatHandler) MarkSeen(c echo.Context) error {
	if err := h.chats.MarkSeen(c.Request().Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}
