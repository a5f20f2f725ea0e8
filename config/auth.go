package config

import "time"

// DirectoryConfig contains LDAP/Active Directory connection settings.
//
// The gateway binds as the end user, so no service account is required
// unless the directory denies anonymous search after a user bind.
type DirectoryConfig struct {
	// URL is the directory endpoint, e.g. "ldap://dc1.example.com:389"
	// or "ldaps://dc1.example.com:636".
	URL string `env:"URL" envDefault:"ldap://localhost:389"`

	// BaseDN is the search base, e.g. "dc=example,dc=com". The bind
	// domain suffix is derived from its dc= components.
	BaseDN string `env:"BASE_DN" envDefault:"dc=example,dc=com"`

	// BindDN and BindPassword are optional service credentials. Only
	// needed when the directory requires a privileged search identity.
	BindDN       string `env:"BIND_DN"`
	BindPassword string `env:"BIND_PASSWORD"`

	// ConnectTimeout bounds the TCP/TLS dial.
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`

	// OperationTimeout bounds each bind/search round trip.
	OperationTimeout time.Duration `env:"TIMEOUT" envDefault:"5s"`

	// TitleCaseLogins rewrites "first.last" logins to "First.Last" before
	// the domain suffix is applied. Some deployments require it because
	// their directory treats the principal name case-sensitively. Leave
	// off unless the directory demands it.
	TitleCaseLogins bool `env:"TITLE_CASE_LOGINS" envDefault:"false"`
}

// Sanitize applies guardrails to directory configuration values.
func (d *DirectoryConfig) Sanitize() {
	if d.ConnectTimeout <= 0 {
		d.ConnectTimeout = 5 * time.Second
	}
	if d.OperationTimeout <= 0 {
		d.OperationTimeout = 5 * time.Second
	}
}

// TokenConfig contains session token signing settings.
type TokenConfig struct {
	// Secret is the HMAC signing key. Required outside development.
	Secret string `env:"SECRET"`

	// Lifetime is how long an issued token stays valid.
	Lifetime time.Duration `env:"EXPIRES_IN" envDefault:"24h"`

	// Issuer is recorded in the token's iss claim.
	Issuer string `env:"ISSUER" envDefault:"bi-portal"`
}

// Sanitize applies guardrails to token configuration values.
func (t *TokenConfig) Sanitize() {
	if t.Lifetime <= 0 {
		t.Lifetime = 24 * time.Hour
	}
}

// CaptchaConfig contains CAPTCHA verification settings.
type CaptchaConfig struct {
	// Secret is the server-side key posted to the verification endpoint.
	Secret string `env:"SECRET"`

	// SiteKey is the public key clients use to render the challenge. Served
	// as-is by the captcha discovery endpoint.
	SiteKey string `env:"SITE_KEY"`

	// VerifyURL is the external verification endpoint.
	VerifyURL string `env:"VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`

	// Timeout bounds the verification round trip.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`

	// DevAllow lets an unconfigured verifier pass in development mode.
	// Never honored outside development; every bypass is logged.
	DevAllow bool `env:"DEV_ALLOW" envDefault:"false"`
}

// AttemptsConfig contains failed-login tracking settings.
type AttemptsConfig struct {
	// CaptchaThreshold is the failure count (per identity or per client
	// address) at which the login endpoint starts demanding a CAPTCHA.
	CaptchaThreshold int `env:"CAPTCHA_THRESHOLD" envDefault:"3"`
}

// Sanitize applies guardrails to attempt-tracking configuration values.
func (a *AttemptsConfig) Sanitize() {
	if a.CaptchaThreshold < 1 {
		a.CaptchaThreshold = 3
	}
}

// PermissionsConfig contains group-to-report permission settings.
type PermissionsConfig struct {
	// MappingPath locates the JSON file mapping directory group names to
	// report id lists. Loaded once at startup; absent groups grant nothing.
	MappingPath string `env:"MAPPING_PATH" envDefault:"config/permissions.json"`

	// CacheTTL is how long a user's resolved report set stays cached.
	CacheTTL time.Duration `env:"TTL" envDefault:"10m"`
}

// Sanitize applies guardrails to permission configuration values.
func (p *PermissionsConfig) Sanitize() {
	if p.CacheTTL <= 0 {
		p.CacheTTL = 10 * time.Minute
	}
}
