package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
)

// DirectoryAuthenticator verifies credentials against a directory service
// and fetches the matching user record.
type DirectoryAuthenticator interface {
	// Authenticate binds with the supplied credentials and, on success,
	// looks up the user's directory record. A failed bind returns
	// (nil, nil): invalid credentials are an outcome, not an error.
	// A non-nil error means the directory itself was unreachable.
	Authenticate(ctx context.Context, username, password string) (*domainauth.Identity, error)
}

// TokenService mints and validates the signed session tokens that carry
// all session state; the server keeps no session table.
type TokenService interface {
	// Issue mints a signed token for the identity, embedding the allowed
	// report ids when provided.
	Issue(identity domainauth.Identity, allowedReportIDs []string) (string, error)

	// Verify returns the token's claims, or nil for any invalid token
	// (bad signature, malformed, expired). It never returns an error for
	// invalid input; nil claims is the only failure signal.
	Verify(token string) *domainauth.Claims
}

// CaptchaVerifier checks a client-supplied CAPTCHA token with an external
// verification service. Implementations fail closed on transport errors.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, clientAddr string) bool
}

// PermissionResolver maps a user's directory groups to the set of report
// ids they may open.
type PermissionResolver interface {
	Resolve(identity domainauth.Identity) []string
}

// AttemptTracker counts failed logins per identity and per client address
// and decides when the login flow must demand a CAPTCHA.
type AttemptTracker interface {
	ShouldRequireCaptcha(identity, addr string) bool
	RecordFailure(identity, addr string)
	RecordSuccess(identity, addr string)
}
