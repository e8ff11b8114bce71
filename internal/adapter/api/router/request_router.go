package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/handler"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
)

func SetupRequestRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	requestHandler := handler.GetRequestHandler()

	v1.GET("/listings/:id/request", requestHandler.StatusForListing, authMiddleware.Authenticate)

	requests := v1.Group("/requests", authMiddleware.Authenticate)
	requests.POST("", requestHandler.CreateRequest)
	requests.GET("/sent", requestHandler.ListSent)
	requests.GET("/received", requestHandler.ListReceived)
	requests.POST("/:id/accept", requestHandler.Accept)
	requests.POST("/:id/reject", requestHandler.Reject)
	requests.POST("/:id/cancel", requestHandler.Cancel)
	requests.DELETE("/:id", requestHandler.DeleteRequest)
}
