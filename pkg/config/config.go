// Package config loads the application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DB holds the database connection settings.
type DB struct {
	Url string `envconfig:"URL" required:"true"`
}

// Jwt holds the token signing settings.
type Jwt struct {
	Secret        string        `envconfig:"SECRET" required:"true"`
	Expiry        time.Duration `envconfig:"EXPIRY" default:"24h"`
	RefreshExpiry time.Duration `envconfig:"REFRESH_EXPIRY" default:"168h"`
}

// Redis holds the optional response-cache settings. An empty Addr disables
// caching entirely.
type Redis struct {
	Addr     string        `envconfig:"ADDR"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	TTL      time.Duration `envconfig:"TTL" default:"5m"`
}

// Notifier holds the outbound notification settings. An empty URL selects
// the log-backed notifier.
type Notifier struct {
	AmqpURL   string `envconfig:"AMQP_URL"`
	Exchange  string `envconfig:"EXCHANGE" default:"notifications"`
	FromEmail string `envconfig:"FROM_EMAIL" default:"no-reply@ebanking.local"`
}

// RateLimit holds the per-IP request limiter settings.
type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"15m"`
}

// Server holds the listener settings.
type Server struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// App is the root configuration.
type App struct {
	Env       string    `envconfig:"ENV" default:"development"`
	Server    Server    `envconfig:"SERVER"`
	DB        DB        `envconfig:"DATABASE"`
	Jwt       Jwt       `envconfig:"JWT"`
	Redis     Redis     `envconfig:"REDIS"`
	Notifier  Notifier  `envconfig:"NOTIFIER"`
	RateLimit RateLimit `envconfig:"RATE_LIMIT"`
}

// Development reports whether error detail may be exposed in responses.
func (a *App) Development() bool {
	return a.Env == "development"
}

// Load reads the environment, optionally seeded from a .env file, and fails
// when a required variable (database URL, JWT secret) is absent.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("app config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"jwt_expiry", cfg.Jwt.Expiry,
		"redis_addr", cfg.Redis.Addr,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:2] + "****" + v[len(v)-4:]
}
