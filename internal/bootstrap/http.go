package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/espandar/bi-portal/config"
	"github.com/espandar/bi-portal/internal/data"
	httpx "github.com/espandar/bi-portal/internal/http"
	"github.com/espandar/bi-portal/internal/observability/metrics"
	"github.com/espandar/bi-portal/internal/service"
)

// NewMetricsRegistry creates the Prometheus registry and the gateway's
// collector, or (nil, Nop) when metrics are disabled.
func NewMetricsRegistry(cfg config.ObservabilityConfig) (*prometheus.Registry, metrics.Recorder) {
	if !cfg.MetricsEnabled {
		return nil, metrics.Nop{}
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, metrics.NewCollector(reg)
}

// HTTPServerDeps bundles dependencies for BuildHTTPHandler.
type HTTPServerDeps struct {
	Config          *config.AppConfig
	Auth            *service.AuthService
	MetricsRegistry *prometheus.Registry
	Logger          *slog.Logger
}

// BuildHTTPHandler assembles the router with its repositories and
// middleware chain. The returned RateLimiter must be stopped on shutdown.
func BuildHTTPHandler(deps HTTPServerDeps) (http.Handler, *httpx.RateLimiter) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	limiter := httpx.NewRateLimiter(httpx.RateLimiterConfig{
		PerMinute: cfg.HTTP.LoginRatePerMinute,
		Burst:     cfg.HTTP.LoginRateBurst,
	})

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:            deps.Auth,
		Admins:          data.NewAdminRepo(cfg.Catalog.AdminsPath),
		Catalog:         data.NewCatalogRepo(cfg.Catalog.ReportsPath),
		LoginLimiter:    limiter,
		FrontendURL:     cfg.HTTP.FrontendURL,
		CaptchaSiteKey:  cfg.Captcha.SiteKey,
		MetricsRegistry: deps.MetricsRegistry,
		Logger:          logger,
	})

	// Order: Recover -> Logging -> Router
	h := httpx.Logging(logger)(router)
	h = httpx.Recover(logger)(h)
	return h, limiter
}

// RunHTTPServer serves until the context is canceled by a signal, then
// shuts down gracefully.
func RunHTTPServer(ctx context.Context, handler http.Handler, addr string, logger *slog.Logger) error {
	if addr == "" {
		addr = ":3000"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
