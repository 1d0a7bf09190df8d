// Package response renders service envelopes and failures as HTTP responses.
// Every failure, whether it comes from a service, a middleware or echo itself,
// leaves the server in the same JSON shape.
package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/metrics"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/guard"
)

// ExposeErrorsKey marks a request whose failures carry the raw error text.
const ExposeErrorsKey = "exposeErrors"

// Failure is the body of every non-2xx response.
type Failure struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Context   string    `json:"context,omitempty"`
	Error     string    `json:"error"`
	Redirect  string    `json:"redirect,omitempty"`
	Fields    []string  `json:"fields,omitempty"`
	Raw       string    `json:"raw,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Status maps a domain error to its HTTP status.
func Status(err error) int {
	var missing interface{ MissingFields() []string }
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrNothingToExport):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUserDisabled):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidQuantity), errors.As(err, &missing):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// redirectFor returns the client route a failure should send the user to.
func redirectFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return guard.LoginPath
	case errors.Is(err, domain.ErrForbidden):
		return guard.UnauthorizedPath
	}
	return ""
}

// JSON writes a success envelope with status, or the failure of a failed one.
func JSON[T any](c echo.Context, status int, env envelope.Envelope[T]) error {
	if !env.Success {
		metrics.EnvelopesTotal.WithLabelValues(env.Context, "failure").Inc()
		return Fail(c, env.Raw, env.Context, env.Message)
	}
	metrics.EnvelopesTotal.WithLabelValues(env.Context, "success").Inc()
	return c.JSON(status, env)
}

// Fail writes the failure body for err. Unknown errors get the generic
// message so internals never leak unless EXPOSE_ERRORS is on.
func Fail(c echo.Context, err error, context, message string) error {
	status := Status(err)
	if message == "" && err != nil {
		message = err.Error()
	}
	if status == http.StatusInternalServerError {
		message = envelope.DefaultFailureMessage
	}
	body := Failure{
		Message:   message,
		Context:   context,
		Error:     message,
		Redirect:  redirectFor(err),
		Timestamp: time.Now().UTC(),
	}
	var missing interface{ MissingFields() []string }
	if errors.As(err, &missing) {
		body.Fields = missing.MissingFields()
	}
	return Write(c, status, body, err)
}

// Redirect writes a guard failure that tells the client where to go.
func Redirect(c echo.Context, status int, message, to string) error {
	return Write(c, status, Failure{
		Message:   message,
		Error:     message,
		Redirect:  to,
		Timestamp: time.Now().UTC(),
	}, nil)
}

// Write sends body, attaching the raw error when the request allows it.
func Write(c echo.Context, status int, body Failure, raw error) error {
	if expose, _ := c.Get(ExposeErrorsKey).(bool); expose && raw != nil {
		body.Raw = raw.Error()
	}
	return c.JSON(status, body)
}
