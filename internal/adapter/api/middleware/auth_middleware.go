package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/response"
)

const (
	ContextKeyUID   = "uid"
	ContextKeyPhone = "phone"
)

type AuthMiddleware struct {
	identity usecase.IdentityProvider
}

func NewAuthMiddleware(identity usecase.IdentityProvider) *AuthMiddleware {
	return &AuthMiddleware{
		identity: identity,
	}
}

// Authenticate requires a valid "Authorization: Bearer <id token>" header.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		if err := m.verify(c, token); err != nil {
			return response.Error(c, err)
		}
		return next(c)
	}
}

// AuthenticateQuery accepts the token from ?token= as well, for WebSocket
// clients that cannot set headers on the upgrade request.
func (m *AuthMiddleware) AuthenticateQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			token, _ = bearerToken(c.Request().Header.Get("Authorization"))
		}
		if token == "" {
			return response.Error(c, errors.Unauthorized("Token is required", nil))
		}

		if err := m.verify(c, token); err != nil {
			return response.Error(c, err)
		}
		return next(c)
	}
}

// OptionalAuth sets the session when a valid token is present and otherwise
// lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token, ok := bearerToken(c.Request().Header.Get("Authorization")); ok {
			if err := m.verify(c, token); err != nil {
				logger.Debug("Ignoring invalid optional token: %v", err)
			}
		}
		return next(c)
	}
}

func (m *AuthMiddleware) verify(c echo.Context, token string) error {
	uid, phone, err := m.identity.VerifyToken(c.Request().Context(), token)
	if err != nil || uid == "" {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	c.Set(ContextKeyUID, uid)
	c.Set(ContextKeyPhone, phone)
	return nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// SessionFrom returns the caller set by one of the auth middlewares. The
// session is invalid for anonymous requests.
func SessionFrom(c echo.Context) entity.Session {
	uid, _ := c.Get(ContextKeyUID).(string)
	phone, _ := c.Get(ContextKeyPhone).(string)
	return entity.NewSession(uid, phone)
}
