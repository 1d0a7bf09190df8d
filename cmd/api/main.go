// @title                       OneStopShop Storefront API
// @version                     1.0
// @description                 Catalog, cart, auth and back-office API of the OneStopShop storefront.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/onestopshop/storefront/internal/api"
	"github.com/onestopshop/storefront/internal/api/handler"
	"github.com/onestopshop/storefront/internal/api/metrics"
	"github.com/onestopshop/storefront/internal/core/ports"
	"github.com/onestopshop/storefront/internal/core/service"
	"github.com/onestopshop/storefront/internal/core/session"
	"github.com/onestopshop/storefront/internal/infrastructure/db/mongo"
	"github.com/onestopshop/storefront/internal/infrastructure/db/redis"
	"github.com/onestopshop/storefront/internal/infrastructure/identity"
	"github.com/onestopshop/storefront/internal/infrastructure/queue"
	"github.com/onestopshop/storefront/internal/infrastructure/scheduler"
	"github.com/onestopshop/storefront/internal/pkg/config"
	"github.com/onestopshop/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.OptionsFor(cfg.Env, cfg.LogLevel, "storefront"))
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("storefront stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := mongo.NewUserRepository(db)
	productRepo := mongo.NewProductRepository(db)
	categoryRepo := mongo.NewCategoryRepository(db)
	roleRepo := mongo.NewRoleRepository(db)

	// --- Identity and sessions ---
	events := redis.NewSessionEvents(rdb, cfg.Redis.Channel, logger.Component("session-events"))
	provider := identity.NewProvider(
		mongo.NewIdentityRepository(db),
		redis.NewRevocations(rdb),
		events,
		cfg.JWTSecret,
		cfg.TokenTTL,
		logger.Component("identity"),
	)
	sessions := session.NewStore(userRepo, logger.Component("sessions"))

	// --- Services ---
	users := service.NewUserService(userRepo, provider, events, logger.Component("users"))
	products := service.NewProductService(productRepo, logger.Component("products"))
	categories := service.NewCategoryService(categoryRepo, logger.Component("categories"))
	roles := service.NewRoleService(roleRepo, logger.Component("roles"))
	auth := service.NewAuthService(provider, userRepo, sessions, logger.Component("auth"))
	catalog := service.NewCatalogService(productRepo, categoryRepo, logger.Component("catalog"), products, categories)
	dashboard := service.NewDashboardService(users, products, categories, logger.Component("dashboard"))
	carts := service.NewCartService(productRepo, redis.NewCartStore(rdb, cfg.Cart.TTL), logger.Component("cart"))

	// --- Background work ---
	dispatcher := queue.NewDispatcher(cfg.Dispatcher.Workers, sessions, logger.Component("dispatcher"),
		queue.WithQueueSize(cfg.Dispatcher.QueueSize),
		queue.WithObserver(func(ev ports.SessionEvent) {
			metrics.SessionEventsTotal.WithLabelValues(string(ev.Kind)).Inc()
		}),
	)
	dispatcher.Start(ctx)
	if err := dispatcher.Consume(ctx, events); err != nil {
		return err
	}

	jobs := scheduler.New(logger.Component("scheduler"))
	if err := jobs.Add(
		scheduler.Job{Name: "dashboard-counts", Spec: cfg.Scheduler.RefreshSpec, Run: dashboard.RefreshJob},
		scheduler.Job{Name: "catalog-menu", Spec: cfg.Scheduler.RefreshSpec, Run: catalog.RefreshMenu},
	); err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:       auth,
		Catalog:    catalog,
		Cart:       carts,
		Dashboard:  dashboard,
		Users:      users,
		Products:   products,
		Categories: categories,
		Roles:      roles,
		Verifier:   provider,
		Sessions:   sessions,
		Health: map[string]handler.Pinger{
			"mongodb": mongo.NewPinger(client),
			"redis":   redis.NewPinger(rdb),
		},
		Store: cfg.Store,
		Cookie: handler.CookieConfig{
			Name:   cfg.Cart.CookieName,
			TTL:    cfg.Cart.TTL,
			Secure: cfg.Cart.Secure || cfg.IsProduction(),
		},
		CORSOrigins:  cfg.CORSOrigins,
		ExposeErrors: cfg.ExposeErrors,
		AuthRate:     cfg.RateLimit,
		Log:          logger.Component("http"),
	})

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
