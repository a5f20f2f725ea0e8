package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "ldap://localhost:389", cfg.Directory.URL)
	assert.Equal(t, "dc=example,dc=com", cfg.Directory.BaseDN)
	assert.Equal(t, 5*time.Second, cfg.Directory.ConnectTimeout)
	assert.False(t, cfg.Directory.TitleCaseLogins)
	assert.Equal(t, 24*time.Hour, cfg.Token.Lifetime)
	assert.Equal(t, "bi-portal", cfg.Token.Issuer)
	assert.Equal(t, "https://www.google.com/recaptcha/api/siteverify", cfg.Captcha.VerifyURL)
	assert.Equal(t, 3, cfg.Attempts.CaptchaThreshold)
	assert.Equal(t, 10*time.Minute, cfg.Permissions.CacheTTL)
	assert.Equal(t, "config/permissions.json", cfg.Permissions.MappingPath)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.HTTP.LoginRatePerMinute)
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LDAP_URL", "ldaps://dc1.corp.example.com:636")
	t.Setenv("LDAP_BASE_DN", "dc=corp,dc=example,dc=com")
	t.Setenv("LDAP_TITLE_CASE_LOGINS", "true")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("JWT_EXPIRES_IN", "8h")
	t.Setenv("ATTEMPTS_CAPTCHA_THRESHOLD", "5")
	t.Setenv("PERMISSIONS_TTL", "1m")
	t.Setenv("HTTP_ADDR", ":8080")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "ldaps://dc1.corp.example.com:636", cfg.Directory.URL)
	assert.Equal(t, "dc=corp,dc=example,dc=com", cfg.Directory.BaseDN)
	assert.True(t, cfg.Directory.TitleCaseLogins)
	assert.Equal(t, "super-secret", cfg.Token.Secret)
	assert.Equal(t, 8*time.Hour, cfg.Token.Lifetime)
	assert.Equal(t, 5, cfg.Attempts.CaptchaThreshold)
	assert.Equal(t, time.Minute, cfg.Permissions.CacheTTL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestAppConfig_SanitizeGuardrails(t *testing.T) {
	cfg := AppConfig{
		Directory:   DirectoryConfig{ConnectTimeout: -1, OperationTimeout: 0},
		Token:       TokenConfig{Lifetime: -time.Hour},
		Attempts:    AttemptsConfig{CaptchaThreshold: 0},
		Permissions: PermissionsConfig{CacheTTL: 0},
		HTTP:        HTTPConfig{Addr: "", LoginRatePerMinute: 0, LoginRateBurst: 0},
	}
	cfg.Sanitize()

	assert.Equal(t, 5*time.Second, cfg.Directory.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.Directory.OperationTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Token.Lifetime)
	assert.Equal(t, 3, cfg.Attempts.CaptchaThreshold)
	assert.Equal(t, 10*time.Minute, cfg.Permissions.CacheTTL)
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.HTTP.LoginRatePerMinute)
	assert.Equal(t, 10, cfg.HTTP.LoginRateBurst)
}

func TestAppConfig_DevModeDetection(t *testing.T) {
	t.Run("DEV flag", func(t *testing.T) {
		t.Setenv("DEV", "true")
		var cfg AppConfig
		require.NoError(t, env.Parse(&cfg))
		cfg.Sanitize()
		assert.True(t, cfg.IsDev)
	})

	t.Run("NODE_ENV fallback", func(t *testing.T) {
		t.Setenv("NODE_ENV", "development")
		var cfg AppConfig
		require.NoError(t, env.Parse(&cfg))
		cfg.Sanitize()
		assert.True(t, cfg.IsDev)
	})

	t.Run("production NODE_ENV stays off", func(t *testing.T) {
		t.Setenv("NODE_ENV", "production")
		var cfg AppConfig
		require.NoError(t, env.Parse(&cfg))
		cfg.Sanitize()
		assert.False(t, cfg.IsDev)
	})
}
