package bootstrap

import (
	"github.com/go-ticklist/ticklist/internal/config"
	"github.com/go-ticklist/ticklist/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// rateLimitMiddlewares holds rate limiting middlewares for the credential
// endpoints, the only routes an unauthenticated caller can hammer
type rateLimitMiddlewares struct {
	register gin.HandlerFunc
	login    gin.HandlerFunc
}

// setupRateLimiting configures rate limiting middlewares based on configuration.
// Accepts an optional go-redis client.
func setupRateLimiting(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) rateLimitMiddlewares {
	// Return no-op middlewares when rate limiting is disabled
	noOpMiddleware := func(c *gin.Context) { c.Next() }

	switch {
	case !cfg.EnableRateLimit:
		logger.Info("rate limiting disabled")
		return rateLimitMiddlewares{
			register: noOpMiddleware,
			login:    noOpMiddleware,
		}
	default:
		return createRateLimiters(cfg, redisClient, logger)
	}
}

// createRateLimiters creates rate limiting middlewares for the auth endpoints.
// Accepts an optional go-redis client.
func createRateLimiters(
	cfg *config.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) rateLimitMiddlewares {
	logger.Info("rate limiting enabled",
		zap.String("store", cfg.RateLimitStore),
		zap.Int64("requests", cfg.AuthRateLimitRequests),
		zap.Duration("window", cfg.AuthRateLimitWindow),
	)

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)

	createLimiter := func(endpoint string) gin.HandlerFunc {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			Requests: int(cfg.AuthRateLimitRequests),
			Window:   cfg.AuthRateLimitWindow,
			// Counters older than one window are dead weight.
			CleanupInterval: cfg.AuthRateLimitWindow,
			StoreType:       storeType,
			RedisClient:     redisClient, // nil for the memory store
		})
		if err != nil {
			logger.Fatal("failed to create rate limiter",
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
		return limiter
	}

	return rateLimitMiddlewares{
		register: createLimiter("/auth/register"),
		login:    createLimiter("/auth/login"),
	}
}
