package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/handler"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	v1.GET("/ws", handler.GetWebSocketHandler().HandleWebSocket, authMiddleware.AuthenticateQuery)
}
