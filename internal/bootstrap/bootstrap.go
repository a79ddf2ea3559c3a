package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-ticklist/ticklist/internal/config"
	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/go-ticklist/ticklist/internal/services"
	"github.com/go-ticklist/ticklist/internal/store"
	"github.com/go-ticklist/ticklist/internal/token"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config
	Logger *zap.Logger

	// Core infrastructure
	DB       *store.Store
	Registry revocation.Registry
	// MemoryRegistry is set only when the memory backend is selected; the
	// purge job needs the concrete type. Redis expires its keys itself.
	MemoryRegistry       *revocation.MemoryRegistry
	Recorder             metrics.Recorder
	RateLimitRedisClient *redis.Client

	// Business layer
	Issuer      *token.Issuer
	Validator   *token.Validator
	AuthService *services.AuthService
	TodoService *services.TodoService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	// Phase 1: configuration must be sane before any component is built.
	// An empty signing secret or a broken lifetime never gets past here.
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{Config: cfg}

	// Phase 2: initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		return err
	}

	// Phase 3: initialize business layer
	app.initializeBusinessLayer()

	// Phase 4: initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 5: run until a shutdown signal, then drain
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up logging, database, metrics, the revocation
// registry, and the rate-limit Redis client
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	app.Logger, err = initializeLogger(app.Config)
	if err != nil {
		return err
	}

	app.DB, err = initializeDatabase(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	app.Recorder = initializeMetrics(app.Config, app.Logger)

	app.Registry, app.MemoryRegistry, err = initializeRegistry(
		ctx, app.Config, app.Recorder, app.Logger,
	)
	if err != nil {
		return err
	}

	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config, app.Logger)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer sets up the token layer and services
func (app *Application) initializeBusinessLayer() {
	app.Issuer, app.Validator = initializeTokenLayer(app.Config, app.Registry)
	app.AuthService, app.TodoService = initializeServices(
		app.DB,
		app.Issuer,
		app.Registry,
		app.Recorder,
		app.Logger,
	)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(app.AuthService, app.TodoService)

	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.Registry,
		app.Validator,
		app.HandlerSet,
		app.Recorder,
		app.RateLimitRedisClient,
		app.Logger,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Running jobs
	addServerRunningJob(m, app.Server, app.Logger)
	addRegistryPurgeJob(m, app.Config, app.MemoryRegistry, app.Recorder, app.Logger)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.Recorder, app.Logger)

	// Shutdown jobs
	addServerShutdownJob(m, app.Server, app.Logger)
	addRegistryShutdownJob(m, app.Registry, app.Logger)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient, app.Logger)
	addStoreShutdownJob(m, app.DB, app.Logger)

	// Wait for graceful shutdown
	<-m.Done()

	_ = app.Logger.Sync()
}
