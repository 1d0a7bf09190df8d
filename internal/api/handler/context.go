package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/middleware"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
)

// CartHeader lets non-browser clients carry the cart id without cookies.
const CartHeader = "X-Cart-ID"

// ctxClaims returns the claims injected by the Auth middleware. Handlers
// behind Auth always have them; their absence means the route was wired
// without the middleware.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return ports.Claims{}, domain.ErrUnauthenticated
	}
	return claims, nil
}

// CookieConfig controls the cart cookie.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// cartID returns the cart of the caller, minting a new id (and cookie) for
// first-time visitors. The header wins over the cookie.
func cartID(c echo.Context, cfg CookieConfig) string {
	if id := strings.TrimSpace(c.Request().Header.Get(CartHeader)); id != "" {
		return id
	}
	if ck, err := c.Cookie(cfg.Name); err == nil && ck.Value != "" {
		return ck.Value
	}

	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     cfg.Name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Response().Header().Set(CartHeader, id)
	return id
}
