package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Revocation registry backend constants
const (
	RevocationStoreMemory = "memory"
	RevocationStoreRedis  = "redis"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// Supported HMAC signing algorithms
var supportedSigningAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

type Config struct {
	// Server settings
	ServerAddr  string
	Environment string // "development" or "production"

	// Token settings
	JWTSecret           string        // HMAC signing secret, required
	JWTSigningAlgorithm string        // "HS256", "HS384" or "HS512"
	AccessTokenLifetime time.Duration // lifetime of issued access tokens

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // connection string (DSN or sqlite path)
	DBInitTimeout  time.Duration

	// Revocation registry
	RevocationStore         string // "memory" or "redis"
	RevocationKeyPrefix     string // redis key prefix for revoked token ids
	RevocationPurgeInterval time.Duration
	RegistryInitTimeout     time.Duration

	// Redis (shared by the redis revocation registry and the redis rate limit store)
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisConnTimeout time.Duration

	// Rate limiting
	EnableRateLimit       bool
	RateLimitStore        string // "memory" or "redis"
	AuthRateLimitRequests int64  // requests per window per client IP
	AuthRateLimitWindow   time.Duration

	// Metrics
	MetricsEnabled bool
	MetricsToken   string // optional bearer token guarding /metrics

	// Logging
	LogLevel string // "debug", "info", "warn" or "error"
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		Environment: getEnv("ENVIRONMENT", EnvDevelopment),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTSigningAlgorithm: getEnv("JWT_SIGNING_ALGORITHM", "HS256"),
		AccessTokenLifetime: getEnvDuration("ACCESS_TOKEN_LIFETIME", 30*time.Minute),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "ticklist.db"),
		DBInitTimeout:  getEnvDuration("DB_INIT_TIMEOUT", 30*time.Second),

		RevocationStore:         getEnv("REVOCATION_STORE", RevocationStoreMemory),
		RevocationKeyPrefix:     getEnv("REVOCATION_KEY_PREFIX", "ticklist:revoked:"),
		RevocationPurgeInterval: getEnvDuration("REVOCATION_PURGE_INTERVAL", 5*time.Minute),
		RegistryInitTimeout:     getEnvDuration("REGISTRY_INIT_TIMEOUT", 10*time.Second),

		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisConnTimeout: getEnvDuration("REDIS_CONN_TIMEOUT", 5*time.Second),

		EnableRateLimit:       getEnvBool("ENABLE_RATE_LIMIT", true),
		RateLimitStore:        getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		AuthRateLimitRequests: int64(getEnvInt("AUTH_RATE_LIMIT_REQUESTS", 10)),
		AuthRateLimitWindow:   getEnvDuration("AUTH_RATE_LIMIT_WINDOW", time.Minute),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration for values the server cannot start without.
// A missing signing secret is fatal: issuing unsigned or guessably-signed
// tokens is worse than refusing to boot.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if !supportedSigningAlgorithms[c.JWTSigningAlgorithm] {
		return fmt.Errorf("unsupported JWT_SIGNING_ALGORITHM %q (supported: HS256, HS384, HS512)", c.JWTSigningAlgorithm)
	}
	if c.AccessTokenLifetime <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_LIFETIME must be positive, got %s", c.AccessTokenLifetime)
	}

	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (supported: sqlite, postgres)", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for driver %q", c.DatabaseDriver)
	}

	switch c.RevocationStore {
	case RevocationStoreMemory, RevocationStoreRedis:
	default:
		return fmt.Errorf("unsupported REVOCATION_STORE %q (supported: memory, redis)", c.RevocationStore)
	}
	if c.RevocationPurgeInterval <= 0 {
		return fmt.Errorf("REVOCATION_PURGE_INTERVAL must be positive, got %s", c.RevocationPurgeInterval)
	}

	if c.EnableRateLimit {
		switch c.RateLimitStore {
		case RateLimitStoreMemory, RateLimitStoreRedis:
		default:
			return fmt.Errorf("unsupported RATE_LIMIT_STORE %q (supported: memory, redis)", c.RateLimitStore)
		}
		if c.AuthRateLimitRequests <= 0 {
			return fmt.Errorf("AUTH_RATE_LIMIT_REQUESTS must be positive, got %d", c.AuthRateLimitRequests)
		}
		if c.AuthRateLimitWindow <= 0 {
			return fmt.Errorf("AUTH_RATE_LIMIT_WINDOW must be positive, got %s", c.AuthRateLimitWindow)
		}
	}

	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unsupported ENVIRONMENT %q (supported: development, production)", c.Environment)
	}

	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
