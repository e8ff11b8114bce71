package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/response"
)

type AuthHandler struct {
	users UserService
}

func NewAuthHandler(users UserService) *AuthHandler {
	return &AuthHandler{
		users: users,
	}
}

// CreateSession is called by clients right after phone sign-in. The first
// call for a uid creates the profile.
func (h *AuthHandler) CreateSession(c echo.Context) error {
	session := middleware.SessionFrom(c)

	user, created, err := h.users.EnsureProfile(c.Request().Context(), session)
	if err != nil {
		logger.Error("Failed to ensure profile for %s: %v", session.UID, err)
		return response.Error(c, err)
	}

	body := map[string]interface{}{
		"user":    user,
		"created": created,
	}
	if created {
		return response.Created(c, body)
	}
	return response.Success(c, body)
}
