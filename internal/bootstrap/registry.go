package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-ticklist/ticklist/internal/config"
	"github.com/go-ticklist/ticklist/internal/metrics"
	"github.com/go-ticklist/ticklist/internal/revocation"

	"go.uber.org/zap"
)

// initializeRegistry creates the revocation registry selected by
// configuration. The second return value is non-nil only for the memory
// backend, which needs an external purge job; Redis expires keys itself.
func initializeRegistry(
	ctx context.Context,
	cfg *config.Config,
	recorder metrics.Recorder,
	logger *zap.Logger,
) (revocation.Registry, *revocation.MemoryRegistry, error) {
	var (
		registry revocation.Registry
		memReg   *revocation.MemoryRegistry
	)

	switch cfg.RevocationStore {
	case config.RevocationStoreRedis:
		ctx, cancel := context.WithTimeout(ctx, cfg.RegistryInitTimeout)
		defer cancel()

		redisReg, err := revocation.NewRedisRegistry(
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			cfg.RevocationKeyPrefix,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize revocation registry: %w", err)
		}
		registry = redisReg
		logger.Info("revocation registry: redis",
			zap.String("addr", cfg.RedisAddr),
			zap.Int("db", cfg.RedisDB),
			zap.String("key_prefix", cfg.RevocationKeyPrefix),
		)

	default: // memory
		memReg = revocation.NewMemoryRegistry()
		registry = memReg
		logger.Info("revocation registry: memory (single instance only)",
			zap.Duration("purge_interval", cfg.RevocationPurgeInterval),
		)
	}

	// Lookup and revocation counts flow through the decorator regardless of
	// backend; with metrics disabled the recorder is a noop.
	return metrics.NewInstrumentedRegistry(registry, recorder), memReg, nil
}
