package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/response"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/fetch"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/core/service"
	"github.com/onestopshop/storefront/internal/pkg/config"
)

type CatalogService interface {
	Home(ctx context.Context) envelope.Envelope[[]domain.Category]
	Products(ctx context.Context, f ports.ProductFilter) envelope.Envelope[[]domain.Product]
	Detail(ctx context.Context, id string) envelope.Envelope[*service.ProductDetail]
	Menu(ctx context.Context) fetch.State[[]service.MenuEntry]
}

// CatalogHandler serves the public storefront screens.
type CatalogHandler struct {
	catalog CatalogService
	store   config.StoreInfo
}

func NewCatalogHandler(catalog CatalogService, store config.StoreInfo) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, store: store}
}

// Home handles GET /.
//
// @Summary      Landing screen categories
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  envelope.Envelope[[]domain.Category]
// @Router       / [get]
func (h *CatalogHandler) Home(c echo.Context) error {
	return response.JSON(c, http.StatusOK, h.catalog.Home(c.Request().Context()))
}

// Products handles GET /products.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Param        category  query     []string  false  "Category ids (repeatable or comma separated)"
// @Param        q         query     string    false  "Name search"
// @Success      200       {object}  envelope.Envelope[[]domain.Product]
// @Router       /products [get]
func (h *CatalogHandler) Products(c echo.Context) error {
	f := ports.ProductFilter{
		CategoryIDs: splitValues(c.QueryParams()["category"]),
		Search:      c.QueryParam("q"),
	}
	return response.JSON(c, http.StatusOK, h.catalog.Products(c.Request().Context(), f))
}

// ProductsByCategory handles GET /products/:category, where :category is
// the category name.
//
// @Summary      List the products of a category
// @Tags         catalog
// @Produce      json
// @Param        category  path      string  true   "Category name"
// @Param        q         query     string  false  "Name search"
// @Success      200       {object}  envelope.Envelope[[]domain.Product]
// @Failure      404       {object}  response.Failure
// @Router       /products/{category} [get]
func (h *CatalogHandler) ProductsByCategory(c echo.Context) error {
	f := ports.ProductFilter{
		CategoryName: c.Param("category"),
		Search:       c.QueryParam("q"),
	}
	return response.JSON(c, http.StatusOK, h.catalog.Products(c.Request().Context(), f))
}

// Detail handles GET /products/details/:id.
//
// @Summary      Product detail with related products
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  envelope.Envelope[service.ProductDetail]
// @Failure      404  {object}  response.Failure
// @Router       /products/details/{id} [get]
func (h *CatalogHandler) Detail(c echo.Context) error {
	return response.JSON(c, http.StatusOK, h.catalog.Detail(c.Request().Context(), c.Param("id")))
}

// Menu handles GET /catalog/menu.
//
// @Summary      Category menu with product counts
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  screen[[]service.MenuEntry]
// @Router       /catalog/menu [get]
func (h *CatalogHandler) Menu(c echo.Context) error {
	return c.JSON(http.StatusOK, newScreen(h.catalog.Menu(c.Request().Context()), "/catalog/menu"))
}

// AboutUs handles GET /aboutus.
//
// @Summary      About the store
// @Tags         pages
// @Produce      json
// @Success      200  {object}  storeInfoResponse
// @Router       /aboutus [get]
func (h *CatalogHandler) AboutUs(c echo.Context) error {
	return c.JSON(http.StatusOK, storeInfoResponse{Name: h.store.Name, About: h.store.About})
}

// Contact handles GET /contact.
//
// @Summary      Store contact details
// @Tags         pages
// @Produce      json
// @Success      200  {object}  storeInfoResponse
// @Router       /contact [get]
func (h *CatalogHandler) Contact(c echo.Context) error {
	return c.JSON(http.StatusOK, storeInfoResponse{
		Name:    h.store.Name,
		Email:   h.store.Email,
		Phone:   h.store.Phone,
		Address: h.store.Address,
	})
}

// Unauthorized handles GET /unauthorized, the screen the guard sends
// signed-in users without the required role to.
//
// @Summary      Unauthorized screen
// @Tags         pages
// @Produce      json
// @Failure      401  {object}  response.Failure
// @Router       /unauthorized [get]
func (h *CatalogHandler) Unauthorized(c echo.Context) error {
	return response.Redirect(c, http.StatusUnauthorized, "No tienes permisos para acceder a esta página", "/")
}

func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
