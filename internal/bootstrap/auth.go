package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/espandar/bi-portal/config"
	"github.com/espandar/bi-portal/internal/adapters/captcha"
	ldapadapter "github.com/espandar/bi-portal/internal/adapters/ldap"
	"github.com/espandar/bi-portal/internal/adapters/token"
	"github.com/espandar/bi-portal/internal/data"
	"github.com/espandar/bi-portal/internal/observability/metrics"
	"github.com/espandar/bi-portal/internal/service"
)

// AuthDeps bundles dependencies for BuildAuthService.
type AuthDeps struct {
	Config  *config.AppConfig
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// BuildAuthService wires the directory client, captcha verifier, attempt
// tracker, permission resolver, and token service into the auth service.
// The group permission mapping is loaded here, once, at startup.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	cfg := deps.Config

	mapping, err := data.LoadGroupPermissions(cfg.Permissions.MappingPath)
	if err != nil {
		return nil, fmt.Errorf("load group permissions: %w", err)
	}

	directory := ldapadapter.NewClient(cfg.Directory, deps.Logger)
	verifier := captcha.NewVerifier(cfg.Captcha, cfg.IsDev, deps.Logger)
	tokens := token.NewService(cfg.Token)
	resolver := service.NewPermissionResolver(mapping, cfg.Permissions.CacheTTL)
	attempts := service.NewAttemptTracker(cfg.Attempts.CaptchaThreshold)

	return service.NewAuthService(service.AuthServiceOptions{
		Directory:   directory,
		Tokens:      tokens,
		Captcha:     verifier,
		Permissions: resolver,
		Attempts:    attempts,
		Metrics:     deps.Metrics,
		Logger:      deps.Logger,
	}), nil
}
