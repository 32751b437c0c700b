// Package main is the entry point for the expensa server.
// It wires all dependencies together and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kamau/expensa/internal/client"
	"github.com/kamau/expensa/internal/config"
	"github.com/kamau/expensa/internal/observability"
	"github.com/kamau/expensa/internal/organization"
	"github.com/kamau/expensa/internal/transport"
	"github.com/kamau/expensa/internal/workflow"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc1234"
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Step 1: Parse CLI flags.
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// Step 2: Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	// Step 3: Initialize logger and metrics.
	observability.Version = version
	observability.Commit = commit

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	metrics := observability.InitMetrics(prometheus.DefaultRegisterer)

	// Step 4: Build the backend caller and services.
	caller := client.NewCaller(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger)
	authSvc := client.NewAuthService(caller)
	expenseSvc := client.NewExpenseService(caller)
	reportSvc := client.NewReportService(caller)

	// Step 5: Load organization configuration from file, or fetch it from
	// the backend when no file is configured.
	org, err := loadOrganization(ctx, cfg.Organization, caller, logger)
	if err != nil {
		logger.Error("organization configuration failed", zap.Error(err))
		return 1
	}

	// Step 6: Build the transition guard and workflow engine.
	guard, guardCloser, err := buildGuard(ctx, cfg.Guard, logger)
	if err != nil {
		logger.Error("transition guard initialization failed", zap.Error(err))
		return 1
	}

	engine := workflow.NewEngine(guard, transport.RequestConfirmer{}, logger)

	// Step 7: Build session minting and the HTTP router.
	sessions, err := transport.NewSessions(cfg.Session)
	if err != nil {
		logger.Error("session initialization failed", zap.Error(err))
		return 1
	}

	router := transport.NewRouter(transport.Dependencies{
		Config:       cfg,
		Logger:       logger,
		Metrics:      metrics,
		Sessions:     sessions,
		Auth:         authSvc,
		Expenses:     expenseSvc,
		Reports:      reportSvc,
		Organization: org,
		Engine:       engine,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Step 8: Start HTTP server.
	logger.Info("server started",
		zap.Int("port", cfg.Server.Port),
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("organization_id", org.OrganizationID),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		return 1
	}

	// Graceful shutdown sequence.
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new connections and drain in-flight requests.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if guardCloser != nil {
		guardCloser()
	}

	logger.Info("shutdown complete")
	return 0
}

// loadOrganization resolves the organization configuration from the
// configured file, or from the backend when no file is set.
func loadOrganization(ctx context.Context, cfg config.OrganizationConfig, caller *client.Caller, logger *zap.Logger) (*organization.Config, error) {
	if cfg.File != "" {
		logger.Info("loading organization configuration from file", zap.String("file", cfg.File))
		return organization.Load(cfg.File)
	}

	logger.Info("fetching organization configuration from backend")
	return client.NewOrganizationService(caller).Details(ctx)
}

// buildGuard creates the per-record transition guard based on config.
func buildGuard(ctx context.Context, cfg config.GuardConfig, logger *zap.Logger) (workflow.TransitionGuard, func(), error) {
	switch cfg.Driver {
	case "memory", "":
		logger.Info("using in-memory transition guard")
		return workflow.NewMemoryTransitionGuard(), nil, nil
	case "redis":
		addr := os.Getenv(cfg.AddrEnv)
		if addr == "" {
			return nil, nil, fmt.Errorf("transition guard: %s environment variable not set", cfg.AddrEnv)
		}

		rdb := redis.NewClient(&redis.Options{Addr: addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("transition guard: ping: %w", err)
		}

		logger.Info("using redis transition guard", zap.String("addr", addr))
		guard := workflow.NewRedisTransitionGuard(rdb, cfg.TTL)
		return guard, func() { rdb.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported transition guard driver: %q", cfg.Driver)
	}
}
