package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/handler"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
)

func SetupChatRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := v1.Group("/chats", authMiddleware.Authenticate)
	chats.POST("", chatHandler.OpenChannel)
	chats.GET("", chatHandler.Inbox)
	chats.GET("/:id/messages", chatHandler.ListMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.PUT("/:id/seen", chatHandler.MarkSeen)
}
