package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/metrics"
	"github.com/onestopshop/storefront/internal/api/response"
	"github.com/onestopshop/storefront/internal/core/guard"
	"github.com/onestopshop/storefront/internal/core/session"
)

// resolveWait bounds how long a request waits for a session that is still
// being resolved before it is answered with 503.
const resolveWait = 2 * time.Second

// SessionReader returns the current snapshot of a session.
type SessionReader interface {
	Current(ctx context.Context, sid, uid string) (session.Snapshot, error)
}

// Guard admits the request only when the session behind the token holds a
// user with role (any signed-in user when role is ""). The role comes from the
// user document, never from the token. Must run after Auth.
func Guard(sessions SessionReader, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := Claims(c)
			if !ok {
				metrics.GuardDecisionsTotal.WithLabelValues(guard.Unauthenticated.String()).Inc()
				return response.Redirect(c, http.StatusUnauthorized, "authentication required", guard.LoginPath)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), resolveWait)
			defer cancel()
			snap, err := sessions.Current(ctx, claims.SessionID, claims.UID)
			if err != nil {
				return response.Fail(c, err, "guard", "")
			}

			decision := guard.Evaluate(snap, role)
			metrics.GuardDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case guard.Loading:
				c.Response().Header().Set("Retry-After", "1")
				return response.Redirect(c, http.StatusServiceUnavailable, "session is still loading", "")
			case guard.Unauthenticated:
				return response.Redirect(c, http.StatusUnauthorized, "authentication required", decision.Redirect())
			case guard.Forbidden:
				return response.Redirect(c, http.StatusForbidden, "access forbidden", decision.Redirect())
			}

			c.Set(UserKey, snap.User)
			return next(c)
		}
	}
}
