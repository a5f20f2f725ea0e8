package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Directory, token, captcha, and attempt-tracking configuration
//   - http.go: HTTP server configuration
//   - catalog.go: File-backed catalog and admin-list configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (captcha bypass eligibility,
	// verbose auth logging). Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Directory is the LDAP/Active Directory connection configuration.
	Directory DirectoryConfig `envPrefix:"LDAP_"`

	// Token is the session token signing configuration.
	Token TokenConfig `envPrefix:"JWT_"`

	// Captcha is the CAPTCHA verification configuration.
	Captcha CaptchaConfig `envPrefix:"CAPTCHA_"`

	// Attempts is the failed-login tracking configuration.
	Attempts AttemptsConfig `envPrefix:"ATTEMPTS_"`

	// Permissions is the group-to-report permission configuration.
	Permissions PermissionsConfig `envPrefix:"PERMISSIONS_"`

	// Catalog locates the file-backed report catalog and admin list.
	Catalog CatalogConfig `envPrefix:"CATALOG_"`

	// HTTP server configuration.
	HTTP HTTPConfig

	// Observability configuration.
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Directory.Sanitize()
	c.Token.Sanitize()
	c.Attempts.Sanitize()
	c.Permissions.Sanitize()
	c.HTTP.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
