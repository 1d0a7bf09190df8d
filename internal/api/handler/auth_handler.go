package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/response"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/form"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/core/service"
)

// AuthService is what the auth screens need from the service layer.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) envelope.Envelope[*service.AuthResult]
	Login(ctx context.Context, email, password string) envelope.Envelope[*service.AuthResult]
	Logout(ctx context.Context, claims ports.Claims) envelope.Envelope[service.Ref]
	Me(ctx context.Context, claims ports.Claims) envelope.Envelope[*domain.User]
}

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a client account and signs it in.
//
// @Summary      Register a new client
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  envelope.Envelope[service.AuthResult]
// @Failure      400   {object}  response.Failure
// @Failure      409   {object}  response.Failure
// @Failure      422   {object}  response.Failure
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	desc, _ := form.Lookup(form.RegisterForm)
	input := map[string]string{
		"fullName":        req.FullName,
		"email":           req.Email,
		"password":        req.Password,
		"confirmPassword": req.ConfirmPassword,
	}
	var env envelope.Envelope[*service.AuthResult]
	err := desc.Submit(input, func(map[string]string) error {
		if err := c.Validate(&req); err != nil {
			return err
		}
		env = h.auth.Register(c.Request().Context(), req.Email, req.Password, req.FullName)
		return nil
	})
	if err != nil {
		return response.Fail(c, err, "registerUser", "")
	}
	return response.JSON(c, http.StatusCreated, env)
}

// Login signs a user in and returns a fresh session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login form"
// @Success      200   {object}  envelope.Envelope[service.AuthResult]
// @Failure      401   {object}  response.Failure
// @Failure      403   {object}  response.Failure
// @Failure      422   {object}  response.Failure
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	desc, _ := form.Lookup(form.LoginForm)
	var env envelope.Envelope[*service.AuthResult]
	err := desc.Submit(map[string]string{"email": req.Email, "password": req.Password}, func(map[string]string) error {
		if err := c.Validate(&req); err != nil {
			return err
		}
		env = h.auth.Login(c.Request().Context(), req.Email, req.Password)
		return nil
	})
	if err != nil {
		return response.Fail(c, err, "loginUser", "")
	}
	return response.JSON(c, http.StatusOK, env)
}

// Logout revokes the current token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope.Envelope[service.Ref]
// @Failure      401  {object}  response.Failure
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return response.Fail(c, err, "logoutUser", "")
	}
	return response.JSON(c, http.StatusOK, h.auth.Logout(c.Request().Context(), claims))
}

// Me returns the signed-in user as currently stored.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  envelope.Envelope[domain.User]
// @Failure      401  {object}  response.Failure
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return response.Fail(c, err, "getCurrentUser", "")
	}
	return response.JSON(c, http.StatusOK, h.auth.Me(c.Request().Context(), claims))
}
