package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onestopshop/storefront/internal/api/middleware"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/fetch"
	"github.com/onestopshop/storefront/internal/core/menu"
	"github.com/onestopshop/storefront/internal/core/service"
)

type DashboardService interface {
	Overview(ctx context.Context) fetch.State[service.DashboardCounts]
	Refresh(ctx context.Context) fetch.State[service.DashboardCounts]
}

type DashboardHandler struct {
	dashboard DashboardService
}

func NewDashboardHandler(dashboard DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

type dashboardResponse struct {
	User   *domain.User                    `json:"user"`
	Menu   []menu.Item                     `json:"menu"`
	Counts screen[service.DashboardCounts] `json:"counts"`
}

type menuResponse struct {
	Items  []menu.Item `json:"items"`
	Active string      `json:"active,omitempty"`
}

// Overview handles GET /admin. ?refresh=1 forces a reload of the counts.
//
// @Summary      Back-office dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        refresh  query     string  false  "Set to 1 to reload the counts"
// @Success      200      {object}  dashboardResponse
// @Failure      401      {object}  response.Failure
// @Failure      403      {object}  response.Failure
// @Router       /admin [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()
	var st fetch.State[service.DashboardCounts]
	if c.QueryParam("refresh") == "1" {
		st = h.dashboard.Refresh(ctx)
	} else {
		st = h.dashboard.Overview(ctx)
	}

	user := middleware.CurrentUser(c)
	role := ""
	if user != nil {
		role = user.Role
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		User:   user,
		Menu:   menu.ForRole(role),
		Counts: newScreen(st, "/admin?refresh=1"),
	})
}

// Menu handles GET /admin/menu. ?path names the current route so the
// client can expand its group.
//
// @Summary      Back-office sidebar
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        path  query     string  false  "Current route"
// @Success      200   {object}  menuResponse
// @Router       /admin/menu [get]
func (h *DashboardHandler) Menu(c echo.Context) error {
	role := ""
	if user := middleware.CurrentUser(c); user != nil {
		role = user.Role
	}
	items := menu.ForRole(role)
	return c.JSON(http.StatusOK, menuResponse{Items: items, Active: menu.Active(items, c.QueryParam("path"))})
}
