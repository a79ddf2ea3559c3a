package bootstrap

import (
	"github.com/go-ticklist/ticklist/internal/config"
	"github.com/go-ticklist/ticklist/internal/metrics"

	"go.uber.org/zap"
)

// initializeMetrics initializes the Prometheus recorder, or the noop recorder
// when metrics are disabled
func initializeMetrics(cfg *config.Config, logger *zap.Logger) metrics.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		logger.Info("prometheus metrics initialized")
	} else {
		logger.Info("metrics disabled (using noop recorder)")
	}
	return recorder
}
