package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/metrics"
	"github.com/onestopshop/storefront/internal/api/response"
	"github.com/onestopshop/storefront/internal/core/envelope"
	"github.com/onestopshop/storefront/internal/core/service"
)

type CartService interface {
	Get(ctx context.Context, cartID string) envelope.Envelope[service.CartView]
	Add(ctx context.Context, cartID, productID string, quantity int) envelope.Envelope[service.CartView]
	Adjust(ctx context.Context, cartID, productID string, delta int) envelope.Envelope[service.CartView]
	Remove(ctx context.Context, cartID, productID string) envelope.Envelope[service.CartView]
	Clear(ctx context.Context, cartID string) envelope.Envelope[service.CartView]
}

// CartHandler serves the shopping cart of the caller, identified by the
// cart cookie or the X-Cart-ID header.
type CartHandler struct {
	cart   CartService
	cookie CookieConfig
}

func NewCartHandler(cart CartService, cookie CookieConfig) *CartHandler {
	return &CartHandler{cart: cart, cookie: cookie}
}

// Get handles GET /cart.
//
// @Summary      Show the cart
// @Tags         cart
// @Produce      json
// @Param        X-Cart-ID  header    string  false  "Cart id (defaults to the cart cookie)"
// @Success      200        {object}  envelope.Envelope[service.CartView]
// @Router       /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	return response.JSON(c, http.StatusOK, h.cart.Get(c.Request().Context(), cartID(c, h.cookie)))
}

// Add handles POST /cart/items.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addToCartRequest  true  "Product and quantity (default 1)"
// @Success      200   {object}  envelope.Envelope[service.CartView]
// @Failure      404   {object}  response.Failure
// @Failure      422   {object}  response.Failure
// @Router       /cart/items [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, err, "addToCart", "")
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	env := h.cart.Add(c.Request().Context(), cartID(c, h.cookie), req.ProductID, qty)
	return h.mutated(c, "add", env)
}

// Adjust handles PATCH /cart/items/:id.
//
// @Summary      Change the quantity of a cart line
// @Description  A line whose quantity drops below 1 is removed.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Product id"
// @Param        body  body      adjustCartRequest  true  "Quantity delta"
// @Success      200   {object}  envelope.Envelope[service.CartView]
// @Failure      422   {object}  response.Failure
// @Router       /cart/items/{id} [patch]
func (h *CartHandler) Adjust(c echo.Context) error {
	var req adjustCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.Fail(c, err, "updateCartItem", "")
	}
	env := h.cart.Adjust(c.Request().Context(), cartID(c, h.cookie), c.Param("id"), req.Delta)
	return h.mutated(c, "adjust", env)
}

// Remove handles DELETE /cart/items/:id.
//
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  envelope.Envelope[service.CartView]
// @Router       /cart/items/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	env := h.cart.Remove(c.Request().Context(), cartID(c, h.cookie), c.Param("id"))
	return h.mutated(c, "remove", env)
}

// Clear handles DELETE /cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  envelope.Envelope[service.CartView]
// @Router       /cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	env := h.cart.Clear(c.Request().Context(), cartID(c, h.cookie))
	return h.mutated(c, "clear", env)
}

func (h *CartHandler) mutated(c echo.Context, op string, env envelope.Envelope[service.CartView]) error {
	if env.Success {
		metrics.CartMutationsTotal.WithLabelValues(op).Inc()
	}
	return response.JSON(c, http.StatusOK, env)
}
