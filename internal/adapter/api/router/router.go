package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	v1 := e.Group("/v1", middleware.IPRateLimiter(20, 40, 3*time.Minute))

	SetupHealthRouter(e)
	SetupAuthRouter(v1, authMiddleware)
	SetupUserRouter(v1, authMiddleware)
	SetupListingRouter(v1, authMiddleware)
	SetupRequestRouter(v1, authMiddleware)
	SetupChatRouter(v1, authMiddleware)
	SetupWebSocketRouter(v1, authMiddleware)
}
