package httpx

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth    AuthServiceInterface
	Admins  AdminStore
	Catalog CatalogReader

	// LoginLimiter throttles the login endpoint per client address.
	// Optional; nil disables transport-level limiting.
	LoginLimiter *RateLimiter

	// FrontendURL is the browser origin allowed to call the API. Empty
	// disables CORS handling.
	FrontendURL string

	// CaptchaSiteKey is the public challenge key served to clients.
	CaptchaSiteKey string

	// MetricsRegistry, when set, exposes /metrics.
	MetricsRegistry *prometheus.Registry

	Logger *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:    services.Auth,
		Admins: services.Admins,
		Logger: services.Logger,
	}
	reportHandlers := &ReportHandlers{
		Svc:     services.Auth,
		Catalog: services.Catalog,
		Logger:  services.Logger,
	}

	login := http.Handler(http.HandlerFunc(authHandlers.Login))
	if services.LoginLimiter != nil {
		login = services.LoginLimiter.Middleware()(login)
	}
	mux.Handle("POST /api/auth/login", login)
	mux.Handle("POST /api/auth/verify", http.HandlerFunc(authHandlers.Verify))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(authHandlers.Logout))

	mux.Handle("GET /api/auth/admins", authHandlers.AdminOnly(authHandlers.ListAdmins))
	mux.Handle("POST /api/auth/admins", authHandlers.AdminOnly(authHandlers.AddAdmin))
	mux.Handle("DELETE /api/auth/admins/{username}", authHandlers.AdminOnly(authHandlers.RemoveAdmin))

	requireAuth := RequireAuth(services.Auth.VerifyToken)
	mux.Handle("GET /api/reports", requireAuth(http.HandlerFunc(reportHandlers.List)))
	mux.Handle("GET /api/reports/allowed", requireAuth(http.HandlerFunc(reportHandlers.AllowedIDs)))
	mux.Handle("POST /api/reports/check-permission", requireAuth(http.HandlerFunc(reportHandlers.CheckPermission)))
	mux.Handle("POST /api/reports/check-permissions", requireAuth(http.HandlerFunc(reportHandlers.CheckPermissions)))

	mux.Handle("GET /api/captcha", http.HandlerFunc(captchaInfoHandler(services.CaptchaSiteKey)))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.MetricsRegistry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(services.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	return CORS(services.FrontendURL)(mux)
}
