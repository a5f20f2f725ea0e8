package captcha

// Package captcha verifies proof-of-humanity tokens with an external
// siteverify endpoint. Verification fails closed: any transport or
// configuration problem rejects the token unless the explicit
// development bypass is enabled.

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/espandar/bi-portal/config"
)

// Verifier implements ports.CaptchaVerifier over HTTP.
type Verifier struct {
	cfg    config.CaptchaConfig
	isDev  bool
	client *http.Client
	logger *slog.Logger
}

// NewVerifier constructs a Verifier. isDev marks the process as running in
// development mode; the fail-open bypass is honored only when both isDev
// and cfg.DevAllow are set.
func NewVerifier(cfg config.CaptchaConfig, isDev bool, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		cfg:    cfg,
		isDev:  isDev,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// siteverifyResponse is the subset of the verification response we act on.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token and the server-held secret to the verification
// endpoint and reports whether it confirmed the token.
func (v *Verifier) Verify(ctx context.Context, token, clientAddr string) bool {
	if v.cfg.Secret == "" {
		if v.isDev && v.cfg.DevAllow {
			v.logger.WarnContext(ctx, "captcha secret not configured, allowing in dev mode",
				slog.String("client_addr", clientAddr))
			return true
		}
		v.logger.ErrorContext(ctx, "captcha secret not configured, failing closed")
		return false
	}
	if token == "" {
		return false
	}

	form := url.Values{}
	form.Set("secret", v.cfg.Secret)
	form.Set("response", token)
	if clientAddr != "" {
		form.Set("remoteip", clientAddr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.VerifyURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		v.logger.ErrorContext(ctx, "captcha request build failed", slog.String("error", err.Error()))
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.ErrorContext(ctx, "captcha verification request failed", slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		v.logger.ErrorContext(ctx, "captcha verification response unreadable", slog.String("error", err.Error()))
		return false
	}

	if !result.Success {
		v.logger.InfoContext(ctx, "captcha verification rejected",
			slog.Any("error_codes", result.ErrorCodes))
	}
	return result.Success
}
