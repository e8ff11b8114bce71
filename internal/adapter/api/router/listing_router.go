package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/handler"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
)

func SetupListingRouter(v1 *echo.Group, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()

	// Browsing works signed out; signed-in viewers get their own gated view.
	listings := v1.Group("/listings", authMiddleware.OptionalAuth)
	listings.GET("", listingHandler.ListActive)
	listings.GET("/:id", listingHandler.GetListing)

	mine := v1.Group("/my-listings", authMiddleware.Authenticate)
	mine.GET("", listingHandler.MyListings)
	mine.POST("", listingHandler.CreateListing)
	mine.POST("/upload-url", listingHandler.UploadURL)
	mine.PUT("/:id/active", listingHandler.SetActive)
}
