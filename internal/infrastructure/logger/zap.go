package logger

import (
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-partner-service/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger from the log section of the config.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	if cfg.LogOutput != "" {
		zapConfig.OutputPaths = []string{cfg.LogOutput}
	}

	return zapConfig.Build()
}
