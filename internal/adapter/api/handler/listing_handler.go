package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/response"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/utils"
)

type ListingHandler struct {
	listings ListingService
}

func NewListingHandler(listings ListingService) *ListingHandler {
	return &ListingHandler{
		listings: listings,
	}
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func (h *ListingHandler) ListActive(c echo.Context) error {
	var input usecase.BrowseListingsInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}
	pagination := utils.GetPaginationParams(c)

	views, total, err := h.listings.ListActive(c.Request().Context(), middleware.SessionFrom(c), input, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, views, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	view, err := h.listings.Get(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, view)
}

func (h *ListingHandler) MyListings(c echo.Context) error {
	views, err := h.listings.MyListings(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, views)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var input usecase.CreateListingInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	view, err := h.listings.Create(c.Request().Context(), middleware.SessionFrom(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, view)
}

func (h *ListingHandler) SetActive(c echo.Context) error {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.listings.SetActive(c.Request().Context(), middleware.SessionFrom(c), c.Param("id"), *req.IsActive); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"id":        c.Param("id"),
		"is_active": *req.IsActive,
	})
}

func (h *ListingHandler) UploadURL(c echo.Context) error {
	var input usecase.UploadURLInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	target, err := h.listings.UploadURL(c.Request().Context(), middleware.SessionFrom(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, target)
}
