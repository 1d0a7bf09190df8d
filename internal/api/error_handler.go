package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/api/response"
	"github.com/onestopshop/storefront/internal/core/envelope"
)

// routeNotFound is the message of the catch-all 404 screen.
const routeNotFound = "the page you are looking for does not exist"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Keeps the status of echo's own errors (bind failures, unknown routes, rate limits).
//   - Maps domain errors that escape a handler through response.Status.
//   - Logs unexpected errors internally without leaking details to the client.
//
// Every error renders as response.Failure.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = response.Write(c, code, response.Failure{
			Message:   msg,
			Context:   "http",
			Error:     msg,
			Timestamp: time.Now().UTC(),
		}, err)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound && errors.Is(err, echo.ErrNotFound) {
			return he.Code, routeNotFound
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	if code := response.Status(err); code != http.StatusInternalServerError {
		return code, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, envelope.DefaultFailureMessage
}
