package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/daybreak101/ambassador/api"
	"github.com/daybreak101/ambassador/api/routes"
	"github.com/daybreak101/ambassador/internal/ambassadors"
	"github.com/daybreak101/ambassador/internal/sessions"
	"github.com/daybreak101/ambassador/pkg/auth/session"
	"github.com/daybreak101/ambassador/pkg/config"
	"github.com/daybreak101/ambassador/pkg/db"
	"github.com/daybreak101/ambassador/pkg/env"
	"github.com/daybreak101/ambassador/pkg/instance"
	"github.com/daybreak101/ambassador/pkg/logger"
	"github.com/daybreak101/ambassador/pkg/metrics"
	"github.com/daybreak101/ambassador/pkg/redis"
	"github.com/daybreak101/ambassador/pkg/shopify"
)

const (
	serviceName     = "ambassador-api"
	shutdownTimeout = 15 * time.Second
	bootTimeout     = 30 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// The hosting platform assigns the listen port.
	cfg.App.Port = env.Get("PORT", cfg.App.Port)

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootCtx, cancelBoot := context.WithTimeout(ctx, bootTimeout)
	defer cancelBoot()

	dbClient, err := db.New(bootCtx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(bootCtx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	} else {
		logg.Warn(ctx, "redis not configured; idempotent creates disabled")
	}

	if cfg.App.IsProd() && cfg.App.DevShop != "" {
		logg.Warn(ctx, "dev shop override is set but ignored outside dev")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ambassadorRepo := ambassadors.NewRepository(dbClient.DB(), metrics.NewStoreMetrics(registry), logg)
	sessionRepo := sessions.NewRepository(dbClient.DB())
	if err := multierr.Combine(ambassadorRepo.Init(bootCtx), sessionRepo.Init(bootCtx)); err != nil {
		return err
	}

	enricher, err := buildEnricher(cfg, sessionRepo)
	if err != nil {
		return err
	}

	ambassadorService, err := ambassadors.NewService(ambassadors.ServiceParams{
		Repo:     ambassadorRepo,
		Enricher: enricher,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, registry, metrics.NewHTTPMetrics(registry), dbClient, redisClient, ambassadorService)
	server := api.NewServer(cfg.App, handler)

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"addr":      server.Addr,
		"instance":  instance.ID(),
		"db_driver": dbClient.Driver(),
		"strict":    cfg.Ambassadors.StrictValidation,
		"enrich":    cfg.Ambassadors.EnrichCustomers,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildEnricher returns nil, meaning passthrough, unless customer enrichment is enabled.
func buildEnricher(cfg *config.Config, sessionRepo *sessions.Repository) (ambassadors.Enricher, error) {
	if !cfg.Ambassadors.EnrichCustomers {
		return nil, nil
	}
	client, err := shopify.NewClient(cfg.Shopify)
	if err != nil {
		return nil, err
	}
	manager, err := session.NewManager(sessionRepo, client, sessions.ErrNotFound)
	if err != nil {
		return nil, err
	}
	return ambassadors.NewCustomerEnricher(manager, client)
}
