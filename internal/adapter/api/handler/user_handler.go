package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/response"
)

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.users.GetProfile(c.Request().Context(), middleware.SessionFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&input); err != nil {
		return response.Error(c, err)
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), middleware.SessionFrom(c), input)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
