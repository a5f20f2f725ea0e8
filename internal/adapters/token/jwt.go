package token

// Package token mints and validates the HMAC-signed JWTs that carry all
// session state. The server holds no session table, so a token is the sole
// proof of an authenticated session until it expires.

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/espandar/bi-portal/config"
	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
)

// sessionClaims is the wire shape of the token payload.
type sessionClaims struct {
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	DisplayName      string   `json:"displayName,omitempty"`
	Groups           []string `json:"groups,omitempty"`
	AllowedReportIDs []string `json:"allowedReportIds,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens with a shared HMAC secret.
type Service struct {
	secret   []byte
	lifetime time.Duration
	issuer   string

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewService constructs a token service from configuration.
func NewService(cfg config.TokenConfig) *Service {
	return &Service{
		secret:   []byte(cfg.Secret),
		lifetime: cfg.Lifetime,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}
}

// Issue mints a signed token embedding the identity's public fields and,
// when provided, the resolved allowed report ids.
func (s *Service) Issue(identity domainauth.Identity, allowedReportIDs []string) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Username:         identity.CanonicalID,
		Email:            identity.Email,
		DisplayName:      identity.DisplayName,
		Groups:           identity.Groups,
		AllowedReportIDs: allowedReportIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.CanonicalID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify validates the token's signature and expiry and returns its claims.
// Any invalid token (bad signature, malformed, expired, wrong algorithm)
// yields nil; nil is the only failure signal.
func (s *Service) Verify(tokenString string) *domainauth.Claims {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil
	}

	out := &domainauth.Claims{
		SubjectID:        claims.Username,
		Email:            claims.Email,
		DisplayName:      claims.DisplayName,
		Groups:           claims.Groups,
		AllowedReportIDs: claims.AllowedReportIDs,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}
