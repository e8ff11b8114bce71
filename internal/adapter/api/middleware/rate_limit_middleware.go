package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/response"
)

// IPRateLimiter limits requests per client IP. It guards the endpoints that
// verify tokens so a flood of bad tokens cannot hammer the identity provider.
func IPRateLimiter(perSecond float64, burst int, idle time.Duration) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: idle,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Error(c, errors.Internal("Failed to identify client", err))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Warn("RATE LIMIT: blocked request from IP %s", identifier)
			return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
		},
	})
}
