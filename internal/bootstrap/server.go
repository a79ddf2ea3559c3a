package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-ticklist/ticklist/internal/config"
	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/revocation"
	"github.com/go-ticklist/ticklist/internal/store"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// gaugeUpdateInterval is how often the users/todos gauges are refreshed
// from the database.
const gaugeUpdateInterval = 30 * time.Second

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server, logger *zap.Logger) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("failed to start server", zap.Error(err))
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server, logger *zap.Logger) {
	m.AddShutdownJob(func() error {
		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("server forced to shutdown", zap.Error(err))
			return err
		}

		logger.Info("server exited")
		return nil
	})
}

// addRegistryPurgeJob adds the periodic purge of expired revocation entries.
// Only the memory backend needs it; Redis expires its keys on its own.
func addRegistryPurgeJob(
	m *graceful.Manager,
	cfg *config.Config,
	memReg *revocation.MemoryRegistry,
	recorder metrics.Recorder,
	logger *zap.Logger,
) {
	if memReg == nil {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.RevocationPurgeInterval)
		defer ticker.Stop()

		// The registry starts empty, so the first purge waits a full interval.
		for {
			select {
			case <-ticker.C:
				removed := memReg.PurgeExpired()
				remaining := memReg.Len()
				recorder.RecordRegistryPurge(removed, remaining)
				if removed > 0 {
					logger.Debug("purged expired revocations",
						zap.Int("removed", removed),
						zap.Int("remaining", remaining),
					)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addMetricsGaugeUpdateJob adds periodic metrics gauge update job
func addMetricsGaugeUpdateJob(
	m *graceful.Manager,
	cfg *config.Config,
	db *store.Store,
	recorder metrics.Recorder,
	logger *zap.Logger,
) {
	if !cfg.MetricsEnabled {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(gaugeUpdateInterval)
		defer ticker.Stop()

		errLog := newErrorLogger(logger)

		// Update immediately on startup
		updateGaugeMetrics(db, recorder, errLog)

		for {
			select {
			case <-ticker.C:
				updateGaugeMetrics(db, recorder, errLog)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addRegistryShutdownJob adds revocation registry shutdown handler
func addRegistryShutdownJob(m *graceful.Manager, registry revocation.Registry, logger *zap.Logger) {
	m.AddShutdownJob(func() error {
		logger.Info("closing revocation registry")
		if err := registry.Close(); err != nil {
			logger.Warn("error closing revocation registry", zap.Error(err))
			return err
		}
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client, logger *zap.Logger) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		logger.Info("closing rate-limit redis connection")
		if err := redisClient.Close(); err != nil {
			logger.Warn("error closing redis client", zap.Error(err))
			return err
		}
		return nil
	})
}

// addStoreShutdownJob adds database shutdown handler
func addStoreShutdownJob(m *graceful.Manager, db *store.Store, logger *zap.Logger) {
	m.AddShutdownJob(func() error {
		logger.Info("closing database")
		if err := db.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
			return err
		}
		return nil
	})
}

// errorLogger handles rate-limited error logging
type errorLogger struct {
	logger          *zap.Logger
	lastErrorTimes  map[string]time.Time
	rateLimitWindow time.Duration
}

// newErrorLogger creates a new error logger with rate limiting
func newErrorLogger(logger *zap.Logger) *errorLogger {
	return &errorLogger{
		logger:          logger,
		lastErrorTimes:  make(map[string]time.Time),
		rateLimitWindow: 5 * time.Minute, // Log at most once per 5 minutes per operation
	}
}

// logIfNeeded logs an error only if rate limit allows
func (e *errorLogger) logIfNeeded(operation string, err error) {
	now := time.Now()
	lastTime, exists := e.lastErrorTimes[operation]

	if !exists || now.Sub(lastTime) >= e.rateLimitWindow {
		e.logger.Warn("database query failed",
			zap.String("operation", operation),
			zap.Error(err),
			zap.Duration("suppression_window", e.rateLimitWindow),
		)
		e.lastErrorTimes[operation] = now
	}
}

// updateGaugeMetrics refreshes the users and todos gauges from the database
func updateGaugeMetrics(db *store.Store, m metrics.Recorder, errLog *errorLogger) {
	users, err := db.CountUsers()
	if err != nil {
		m.RecordDatabaseQueryError("count_users")
		errLog.logIfNeeded("count_users", err)
	} else {
		m.SetUsersCount(int(users))
	}

	todos, err := db.CountTodos()
	if err != nil {
		m.RecordDatabaseQueryError("count_todos")
		errLog.logIfNeeded("count_todos", err)
	} else {
		m.SetTodosCount(int(todos))
	}
}
