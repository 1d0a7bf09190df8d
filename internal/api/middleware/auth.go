package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/response"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/guard"
	"github.com/onestopshop/storefront/internal/core/ports"
)

// Keys under which the middlewares store request state in the echo context.
const (
	ClaimsKey = "claims"
	UserKey   = "user"
)

// Auth validates the bearer token and injects its claims into the context.
// Revoked and expired tokens are rejected like malformed ones.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return response.Redirect(c, http.StatusUnauthorized, "missing or malformed authorization header", guard.LoginPath)
			}

			claims, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				return response.Redirect(c, http.StatusUnauthorized, "invalid token", guard.LoginPath)
			}

			c.Set(ClaimsKey, *claims)
			return next(c)
		}
	}
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Claims returns the verified token claims set by Auth.
func Claims(c echo.Context) (ports.Claims, bool) {
	claims, ok := c.Get(ClaimsKey).(ports.Claims)
	return claims, ok
}

// CurrentUser returns the user document set by Guard, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}
