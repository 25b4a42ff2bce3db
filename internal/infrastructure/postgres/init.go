package postgres

import (
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/config"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func MustInitDB(cfg *config.PartnerConfig, zapLogger *zap.Logger) *gorm.DB {
	dsn := cfg.PartnerDB.Dsn

	logLevel := logger.Silent
	if cfg.IsLocal() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		zapLogger.Fatal("failed to init db", zap.Error(err))
	}

	if err := migrate.RunMigrations(db, cfg.PartnerDB.MigrationsPath, zapLogger); err != nil {
		zapLogger.Fatal("failed to migrate db", zap.Error(err))
	}

	return db
}
