package bootstrap

import (
	"net/http"

	"github.com/go-ticklist/ticklist/internal/config"
	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/middleware"
	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/go-ticklist/ticklist/internal/store"
	"github.com/go-ticklist/ticklist/internal/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	registry revocation.Registry,
	validator *token.Validator,
	h handlerSet,
	recorder metrics.Recorder,
	rateLimitRedisClient *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	// Setup Gin mode
	setupGinMode(cfg, logger)
	r := gin.New()

	// Setup middleware
	r.Use(middleware.IPMiddleware())
	r.Use(metrics.HTTPMetricsMiddleware(recorder))
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// Liveness and health endpoints
	r.GET("/", livenessHandler)
	r.GET("/health", createHealthCheckHandler(db, registry))

	// Setup metrics endpoint
	setupMetricsEndpoint(r, cfg, logger)

	// Swagger documentation (development only)
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("swagger ui enabled", zap.String("path", "/swagger/index.html"))
	}

	// Setup rate limiting
	rateLimiters := setupRateLimiting(cfg, rateLimitRedisClient, logger)

	// Setup all routes
	setupAllRoutes(r, validator, recorder, h, rateLimiters)

	// Log server startup info
	logServerStartup(cfg, logger)

	return r
}

// corsMiddleware allows any origin, the upstream service's policy. The
// Authorization header must be listed explicitly or browsers drop bearer
// tokens from cross-origin requests.
func corsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization")
	return cors.New(corsConfig)
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	switch {
	case !cfg.MetricsEnabled:
		logger.Info("prometheus metrics endpoint disabled")
	case cfg.MetricsToken != "":
		logger.Info("prometheus metrics enabled at /metrics with bearer token authentication")
		r.GET(
			"/metrics",
			middleware.MetricsAuthMiddleware(cfg.MetricsToken),
			gin.WrapH(promhttp.Handler()),
		)
	default:
		logger.Info("prometheus metrics enabled at /metrics (no authentication)")
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupAllRoutes configures all application routes
func setupAllRoutes(
	r *gin.Engine,
	validator *token.Validator,
	recorder metrics.Recorder,
	h handlerSet,
	rateLimiters rateLimitMiddlewares,
) {
	requireAuth := middleware.RequireAuth(validator, recorder)

	// Credential routes (public, rate limited)
	auth := r.Group("/auth")
	{
		auth.POST("/register", rateLimiters.register, h.auth.Register)
		auth.POST("/login", rateLimiters.login, h.auth.Login)
	}

	// Session routes (require a live bearer token)
	session := r.Group("/auth", requireAuth)
	{
		session.POST("/logout", h.auth.Logout)
		session.GET("/me", h.auth.Me)
	}

	// Todo routes (require a live bearer token)
	todo := r.Group("/todo", requireAuth)
	{
		todo.POST("", h.todo.Create)
		todo.GET("", h.todo.List)
		todo.GET("/:id", h.todo.Get)
		todo.PUT("/:id", h.todo.Update)
		todo.DELETE("/:id", h.todo.Delete)
	}
}

// livenessHandler godoc
//
//	@Summary		Liveness check
//	@Description	Report that the API process is up and serving requests
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	object{status=string,message=string}	"Service is running"
//	@Router			/ [get]
func livenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "TickList API is running",
	})
}

// createHealthCheckHandler creates the readiness endpoint handler
// healthCheck godoc
//
//	@Summary		Health check
//	@Description	Check server, database, and revocation registry health status
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	object{status=string,database=string,registry=string}	"Service is healthy"
//	@Failure		503	{object}	object{status=string,database=string,registry=string}	"Service is unhealthy"
//	@Router			/health [get]
func createHealthCheckHandler(db *store.Store, registry revocation.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := http.StatusOK

		database := "connected"
		if err := db.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			database = "disconnected"
		}

		// A registry that cannot answer makes every protected route fail
		// closed, so it gates readiness exactly like the database.
		registryState := "connected"
		if err := registry.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			registryState = "disconnected"
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":   overall,
			"database": database,
			"registry": registryState,
		})
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config, logger *zap.Logger) {
	mode := ginModeMap[cfg.IsProduction()]
	gin.SetMode(mode)
	logger.Info("gin mode set", zap.String("mode", mode))
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config, logger *zap.Logger) {
	logger.Info("ticklist api starting",
		zap.String("addr", cfg.ServerAddr),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.DatabaseDriver),
		zap.String("revocation_store", cfg.RevocationStore),
		zap.Duration("token_lifetime", cfg.AccessTokenLifetime),
	)
}
