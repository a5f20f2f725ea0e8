package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/espandar/bi-portal/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateConfig(&cfg); err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting bi-portal gateway",
		"ldap_url", cfg.Directory.URL,
		"base_dn", cfg.Directory.BaseDN,
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev)

	registry, recorder := bootstrap.NewMetricsRegistry(cfg.Observability)

	authSvc, err := bootstrap.BuildAuthService(bootstrap.AuthDeps{
		Config:  &cfg,
		Metrics: recorder,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	handler, limiter := bootstrap.BuildHTTPHandler(bootstrap.HTTPServerDeps{
		Config:          &cfg,
		Auth:            authSvc,
		MetricsRegistry: registry,
		Logger:          logger,
	})
	defer limiter.Stop()

	return bootstrap.RunHTTPServer(ctx, handler, cfg.HTTP.Addr, logger)
}
