package bootstrap

import (
	"fmt"

	"github.com/go-ticklist/ticklist/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger builds the application logger. Development gets a colored
// console encoder, production structured JSON; LOG_LEVEL overrides the
// encoder's default level either way.
func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
