package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RikVoorhaar/routing-game-sub002/config"
)

const shutdownWaitTimeout = 15 * time.Second

// ServiceOrchestrationConfig groups everything needed to run the enabled services.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enabledServices, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, len(enabledServices)+1)

	var httpServer *http.Server
	if enabledServices[config.ServiceModeHTTP] {
		httpServer = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			DB:       cfg.DB,
			Logger:   logger,
		})
	}

	var jobGenDone <-chan struct{}
	if enabledServices[config.ServiceModeJobGenerator] {
		runner, buildErr := BuildJobGenRunner(ServiceDeps{
			Config:      cfg.Config,
			DB:          cfg.DB,
			RedisClient: cfg.RedisClient,
			Logger:      logger,
			Metrics:     cfg.Services.Metrics,
		})
		if buildErr != nil {
			return fmt.Errorf("build job generator: %w", buildErr)
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			if runErr := runner.Run(serviceCtx); runErr != nil {
				select {
				case errCh <- fmt.Errorf("job generator failed: %w", runErr):
				case <-serviceCtx.Done():
				}
			}
		}()
		jobGenDone = done
		logger.InfoContext(serviceCtx, "background service started", "service", "job generator")
	}

	return waitForShutdown(shutdownDeps{
		ctx:        serviceCtx,
		cancel:     cancel,
		errCh:      errCh,
		httpServer: httpServer,
		jobGenDone: jobGenDone,
		timeout:    cfg.Config.HTTP.ShutdownTimeout,
		logger:     logger,
	})
}

// shutdownDeps contains dependencies for graceful shutdown.
type shutdownDeps struct {
	ctx        context.Context
	cancel     context.CancelFunc
	errCh      <-chan error
	httpServer *http.Server
	jobGenDone <-chan struct{}
	timeout    time.Duration
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(deps shutdownDeps) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		deps.logger.Info("shutting down services...")
		deps.cancel()
		return gracefulStop(deps)
	case err := <-deps.errCh:
		deps.logger.Error("service error", "error", err)
		deps.cancel()
		if stopErr := gracefulStop(deps); stopErr != nil {
			deps.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(deps shutdownDeps) error {
	if deps.httpServer != nil {
		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  deps.httpServer,
			Timeout: deps.timeout,
			Logger:  deps.logger,
		}); err != nil {
			return err
		}
	}

	if deps.jobGenDone != nil {
		select {
		case <-deps.jobGenDone:
			deps.logger.Info("job generator stopped")
		case <-time.After(shutdownWaitTimeout):
			deps.logger.Warn("timeout waiting for job generator to stop")
		}
	}

	return nil
}
