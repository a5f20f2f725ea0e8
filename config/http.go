package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":3000"`

	// FrontendURL is the browser origin allowed to call the API.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	// LoginRatePerMinute caps login requests per client address per minute.
	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`

	// LoginRateBurst is the login rate limiter burst size.
	LoginRateBurst int `env:"LOGIN_RATE_BURST" envDefault:"10"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":3000"
	}
	if h.LoginRatePerMinute < 1 {
		h.LoginRatePerMinute = 10
	}
	if h.LoginRateBurst < 1 {
		h.LoginRateBurst = h.LoginRatePerMinute
	}
}
