package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/response"
)

type RequestHandler struct {
	requests RequestService
}

func NewRequestHandler(requests RequestService) *RequestHandler {
	return &RequestHandler{
		requests: requests,
	}
}

type createRequestRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

func (h *RequestHandler) CreateRequest(c echo.Context) error {
	var req createRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.requests.Create(c.Request().Context(), middleware.SessionFrom(c), req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, request)
}

func (h *RequestHandler) ListSent(c echo.Context) error {
	cards, err := h.requests.ListSent(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cards)
}

func (h *RequestHandler) ListReceived(c echo.Context) error {
	cards, err := h.requests.ListReceived(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, cards)
}

// StatusForListing returns the caller's request on a listing, or null when
// there is none.
func (h *RequestHandler) StatusForListing(c echo.Context) error {
	request, err := h.requests.StatusForListing(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"request": request,
	})
}

func (h *RequestHandler) Accept(c echo.Context) error {
	return h.transition(c, "accept", h.requests.Accept)
}

func (h *RequestHandler) Reject(c echo.Context) error {
	return h.transition(c, "reject", h.requests.Reject)
}

func (h *RequestHandler) Cancel(c echo.Context) error {
	return h.transition(c, "cancel", h.requests.Cancel)
}

func (h *RequestHandler) DeleteRequest(c echo.Context) error {
	if err := h.requests.Delete(c.Request().Context(), middleware.SessionFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func (h *RequestHandler) transition(
	c echo.Context,
	event string,
	fire func(context.Context, entity.Session, string) (*entity.Request, error),
) error {
	session := middleware.SessionFrom(c)
	request, err := fire(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		logger.Debug("Request %s %s by %s failed: %v", c.Param("id"), event, session.UID, err)
		return response.Error(c, err)
	}
	return response.Success(c, request)
}
