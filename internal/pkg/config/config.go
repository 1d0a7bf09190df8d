package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port         string        `env:"PORT,          default=8080"`
	Env          string        `env:"ENV,           default=development"`
	JWTSecret    string        `env:"JWT_SECRET"`
	LogLevel     string        `env:"LOG_LEVEL,     default=info"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=24h"`
	ExposeErrors bool          `env:"EXPOSE_ERRORS, default=false"`
	CORSOrigins  []string      `env:"CORS_ORIGINS,  default=*"`
	// RateLimit is the number of requests per second allowed on /login and /register per client.
	RateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Cart       CartConfig
	Dispatcher DispatcherConfig
	Scheduler  SchedulerConfig
	Store      StoreInfo
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=onestopshop"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Channel  string `env:"REDIS_CHANNEL,  default=session-events"`
}

type CartConfig struct {
	TTL        time.Duration `env:"CART_TTL,         default=720h"`
	CookieName string        `env:"CART_COOKIE,      default=cart_id"`
	Secure     bool          `env:"CART_COOKIE_SECURE, default=false"`
}

type DispatcherConfig struct {
	Workers   int `env:"SESSION_WORKERS,    default=4"`
	QueueSize int `env:"SESSION_QUEUE_SIZE, default=64"`
}

type SchedulerConfig struct {
	RefreshSpec string `env:"LOADER_REFRESH_SPEC, default=@every 5m"`
}

// StoreInfo is the static content of the about-us and contact screens.
type StoreInfo struct {
	Name    string `env:"STORE_NAME,    default=OneStopShop"`
	About   string `env:"STORE_ABOUT,   default=Tu tienda de confianza para todo lo que necesitas en un solo lugar."`
	Email   string `env:"STORE_EMAIL,   default=contacto@onestopshop.com"`
	Phone   string `env:"STORE_PHONE,   default=+57 300 000 0000"`
	Address string `env:"STORE_ADDRESS, default=Bogotá - Colombia"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.Dispatcher.Workers < 1 {
		return fmt.Errorf("SESSION_WORKERS must be at least 1, got %d", c.Dispatcher.Workers)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
