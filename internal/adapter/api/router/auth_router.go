package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/handler"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
)

func SetupAuthRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := v1.Group("/auth")
	auth.POST("/session", authHandler.CreateSession, authMiddleware.Authenticate)
}
