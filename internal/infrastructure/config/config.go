package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Auth  AuthConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=groomly"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// AuthConfig tunes the hydration and impersonation flows.
type AuthConfig struct {
	// FetchTimeout bounds the profile fetch and the business fetch
	// independently; a timeout degrades the field to absent.
	FetchTimeout time.Duration `env:"AUTH_FETCH_TIMEOUT, default=5s"`
	// SessionTTL is how long an idle session hash lives in Redis.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL, default=24h"`
	// ImpersonationTokenTTL bounds the one-time token's validity window.
	ImpersonationTokenTTL time.Duration `env:"IMPERSONATION_TOKEN_TTL, default=10m"`
	// RedeemRedirectWait is how long the redemption view shows a failure
	// before sending the operator back to the admin dashboard.
	RedeemRedirectWait time.Duration `env:"REDEEM_REDIRECT_WAIT, default=3s"`
	// EventWorkers sizes the identity event dispatcher.
	EventWorkers int `env:"AUTH_EVENT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
