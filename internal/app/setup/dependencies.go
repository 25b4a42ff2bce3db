package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-partner-service/internal/config"
	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/events"
	publisher "github.com/LavaJover/shvark-partner-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.PartnerConfig
	Logger       *zap.Logger
	DB           *gorm.DB
	Redis        *redis.Client
	Registry     *prometheus.Registry
	Metrics      *metrics.PartnerMetrics
	Bus          *events.Bus
	Publisher    *publisher.KafkaPublisher
	Repositories *Repositories
}

type Repositories struct {
	UserRepo    domain.UserRepository
	PartnerRepo domain.PartnerRepository
	LicenseRepo domain.LicenseRepository
	RankRepo    *repository.DefaultRankRepository
}

func InitializeDependencies(ctx context.Context, cfg *config.PartnerConfig, log *zap.Logger) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg, log)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	repos := &Repositories{
		UserRepo:    repository.NewDefaultUserRepository(db),
		PartnerRepo: repository.NewDefaultPartnerRepository(db),
		LicenseRepo: repository.NewDefaultLicenseRepository(db),
		RankRepo:    repository.NewDefaultRankRepository(db),
	}
	if err := repos.RankRepo.SyncRankTiers(ctx, domain.RankTiers()); err != nil {
		return nil, fmt.Errorf("sync rank tiers: %w", err)
	}

	deps := &Dependencies{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Redis:        redisClient,
		Registry:     registry,
		Metrics:      metrics.NewPartnerMetrics(registry),
		Bus:          events.NewBus(log),
		Repositories: repos,
	}
	deps.wireEvents()

	return deps, nil
}

func (d *Dependencies) wireEvents() {
	audit := logger.NewPGLicenseEventLogger(d.DB)
	d.Bus.Subscribe(domain.TopicLicenseGranted, audit.LogLicenseEvent)
	d.Bus.Subscribe(domain.TopicLicenseRevoked, audit.LogLicenseEvent)

	if !d.Config.KafkaService.Enabled {
		d.Logger.Info("kafka forwarding disabled")
		return
	}
	d.Publisher = initEventPublisher(d.Config, d.Logger)
	d.Bus.Subscribe(events.AllTopics, d.Publisher.Handle)
}

func initEventPublisher(cfg *config.PartnerConfig, log *zap.Logger) *publisher.KafkaPublisher {
	return publisher.NewKafkaPublisher(publisher.KafkaConfig{
		Brokers: []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)},
		Topic:   cfg.KafkaService.Topic,
	}, log)
}

// Close releases every connection opened by InitializeDependencies.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Publisher != nil {
		errs = append(errs, d.Publisher.Close())
	}
	errs = append(errs, d.Redis.Close())
	if sqlDB, err := d.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	} else {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
