package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"volops/core/cache"
	"volops/core/constants"
	"volops/core/controller"
	"volops/core/errors"
	"volops/core/logger"
	"volops/core/utils"
)

// Middleware bundles the request middlewares that need access to shared
// infrastructure.
type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the Bearer token, rejects blacklisted tokens and
// stores the parsed claims in the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return unauthorized(errors.ErrMissingAuthorizationHeader, "Missing authorization header")
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return unauthorized(errors.ErrInvalidTokenFormat, "Invalid authorization header format")
			}

			blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
			if err != nil {
				logger.Error("Middleware:Auth:IsTokenBlacklisted", err)
				return controller.NewErrorResponse(http.StatusServiceUnavailable, errors.ErrServiceUnavailable, "Temporarily unavailable")
			}
			if blacklisted {
				return unauthorized(errors.ErrUnauthorized, "Token has been revoked")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return unauthorized(errors.ErrTokenExpired, "Invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			c.Set(constants.ContextRawToken, token)
			return next(c)
		}
	}
}

func unauthorized(code errors.ErrorCode, message string) error {
	return controller.NewErrorResponse(http.StatusUnauthorized, code, message)
}
