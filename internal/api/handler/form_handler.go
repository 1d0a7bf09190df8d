package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/core/form"
)

// Form handles GET /forms/:name and returns the field descriptors clients
// render the form from.
//
// @Summary      Form descriptor
// @Tags         forms
// @Produce      json
// @Param        name  path      string  true  "Form name (login, register, role)"
// @Success      200   {object}  form.Form
// @Failure      404   {object}  response.Failure
// @Router       /forms/{name} [get]
func Form(c echo.Context) error {
	f, ok := form.Lookup(c.Param("name"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "form not found")
	}
	return c.JSON(http.StatusOK, f)
}
