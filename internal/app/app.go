package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/app/background"
	"github.com/LavaJover/shvark-partner-service/internal/app/setup"
	"github.com/LavaJover/shvark-partner-service/internal/config"
	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/handlers"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	cfg    *config.PartnerConfig
	logger *zap.Logger
	deps   *setup.Dependencies
	server *http.Server
	tasks  *background.BackgroundTasks
}

func New(ctx context.Context, cfg *config.PartnerConfig, logger *zap.Logger) (*App, error) {
	deps, err := setup.InitializeDependencies(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("usecases: %w", err)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		AuthRateLimit:  cfg.HTTPServer.AuthRateLimit,
		TrustedProxies: cfg.HTTPServer.TrustedProxies,
		ExposeInternal: cfg.IsLocal(),
		ReleaseMode:    !cfg.IsLocal(),
	}, handlers.Usecases{
		Auth:    ucs.AuthUsecase,
		Partner: ucs.PartnerUsecase,
		License: ucs.LicenseUsecase,
	}, deps.Metrics, deps.Registry, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		deps:   deps,
		server: &http.Server{
			Addr:         cfg.Address(),
			Handler:      router,
			ReadTimeout:  cfg.HTTPServer.ReadTimeout,
			WriteTimeout: cfg.HTTPServer.WriteTimeout,
		},
		tasks: background.NewBackgroundTasks(
			ucs.PartnerUsecase,
			cfg.Commission.RankSyncInterval,
			cfg.Commission.RankSyncBatchSize,
			logger,
		),
	}, nil
}

// Run serves HTTP and the background tasks until ctx is cancelled or one
// of them fails, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.tasks.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := a.deps.Close(); closeErr != nil {
		a.logger.Warn("failed to release dependencies", zap.Error(closeErr))
	}
	return err
}
