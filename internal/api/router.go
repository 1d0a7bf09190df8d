package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/onestopshop/storefront/docs"
	"github.com/onestopshop/storefront/internal/api/handler"
	"github.com/onestopshop/storefront/internal/api/middleware"
	"github.com/onestopshop/storefront/internal/api/response"
	"github.com/onestopshop/storefront/internal/core/domain"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/pkg/config"
)

const bodyLimit = "1M"

// Dependencies is everything the HTTP layer needs from the rest of the process.
type Dependencies struct {
	Auth       handler.AuthService
	Catalog    handler.CatalogService
	Cart       handler.CartService
	Dashboard  handler.DashboardService
	Users      handler.UserAdmin
	Products   handler.ProductAdmin
	Categories handler.CategoryAdmin
	Roles      handler.RoleAdmin

	Verifier ports.TokenVerifier
	Sessions middleware.SessionReader
	Health   map[string]handler.Pinger

	Store        config.StoreInfo
	Cookie       handler.CookieConfig
	CORSOrigins  []string
	ExposeErrors bool
	// AuthRate is the per-client requests per second allowed on /login and /register.
	AuthRate float64
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  deps.CORSOrigins,
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.CartHeader},
		ExposeHeaders: []string{handler.CartHeader, echo.HeaderContentDisposition},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(exposeErrors(deps.ExposeErrors))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: registerer,
	}))

	// --- Ops ---
	health := handler.NewHealthHandler(deps.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Storefront ---
	catalog := handler.NewCatalogHandler(deps.Catalog, deps.Store)
	e.GET("/", catalog.Home)
	e.GET("/products", catalog.Products)
	e.GET("/products/:category", catalog.ProductsByCategory)
	e.GET("/products/details/:id", catalog.Detail)
	e.GET("/catalog/menu", catalog.Menu)
	e.GET("/aboutus", catalog.AboutUs)
	e.GET("/contact", catalog.Contact)
	e.GET("/unauthorized", catalog.Unauthorized)
	e.GET("/forms/:name", handler.Form)

	cart := handler.NewCartHandler(deps.Cart, deps.Cookie)
	e.GET("/cart", cart.Get)
	e.DELETE("/cart", cart.Clear)
	e.POST("/cart/items", cart.Add)
	e.PATCH("/cart/items/:id", cart.Adjust)
	e.DELETE("/cart/items/:id", cart.Remove)

	// --- Auth ---
	auth := handler.NewAuthHandler(deps.Auth)
	limited := authRateLimit(deps.AuthRate)
	e.POST("/login", auth.Login, limited)
	e.POST("/register", auth.Register, limited)

	authed := middleware.Auth(deps.Verifier)
	e.POST("/logout", auth.Logout, authed)
	e.GET("/me", auth.Me, authed)

	// --- Back office ---
	admin := e.Group("/admin", authed, middleware.Guard(deps.Sessions, domain.RoleAdmin))

	dashboard := handler.NewDashboardHandler(deps.Dashboard)
	admin.GET("", dashboard.Overview)
	admin.GET("/menu", dashboard.Menu)

	users := handler.NewUserAdminHandler(deps.Users)
	registerCollection(admin.Group("/users"), users.List, users.Export, users.Get, users.Create, users.Update, users.Delete, users.Restore)

	products := handler.NewProductAdminHandler(deps.Products, deps.Categories)
	admin.GET("/products/new", products.New)
	registerCollection(admin.Group("/products"), products.List, products.Export, products.Get, products.Create, products.Update, products.Delete, products.Restore)

	categories := handler.NewCategoryAdminHandler(deps.Categories)
	registerCollection(admin.Group("/categories"), categories.List, categories.Export, categories.Get, categories.Create, categories.Update, categories.Delete, categories.Restore)

	roles := handler.NewRoleAdminHandler(deps.Roles)
	registerCollection(admin.Group("/roles"), roles.List, roles.Export, roles.Get, roles.Create, roles.Update, roles.Delete, roles.Restore)

	return e
}

func registerCollection(g *echo.Group, list, export, get, create, update, del, restore echo.HandlerFunc) {
	g.GET("", list)
	g.POST("", create)
	g.GET("/export", export)
	g.GET("/:id", get)
	g.PUT("/:id", update)
	g.DELETE("/:id", del)
	g.POST("/:id/restore", restore)
}

// exposeErrors lets failure bodies carry the raw error text. Off in production.
func exposeErrors(on bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(response.ExposeErrorsKey, on)
			return next(c)
		}
	}
}

// authRateLimit throttles credential endpoints per client IP.
func authRateLimit(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = 5
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     int(perSecond) * 2,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many attempts, please wait a moment")
		},
	})
}
