package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
	apperrors "github.com/espandar/bi-portal/internal/errors"
	"github.com/espandar/bi-portal/internal/observability/metrics"
	"github.com/espandar/bi-portal/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Directory   ports.DirectoryAuthenticator
	Tokens      ports.TokenService
	Captcha     ports.CaptchaVerifier
	Permissions ports.PermissionResolver
	Attempts    ports.AttemptTracker
	Metrics     metrics.Recorder
	Logger      *slog.Logger
}

// AuthService orchestrates one login request end to end: captcha gate,
// directory bind, failure accounting, permission resolution, and token
// minting. It is the only layer that decides the caller-visible outcome.
type AuthService struct {
	directory   ports.DirectoryAuthenticator
	tokens      ports.TokenService
	captcha     ports.CaptchaVerifier
	permissions ports.PermissionResolver
	attempts    ports.AttemptTracker
	metrics     metrics.Recorder
	logger      *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	m := opts.Metrics
	if m == nil {
		m = metrics.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		directory:   opts.Directory,
		tokens:      opts.Tokens,
		captcha:     opts.Captcha,
		permissions: opts.Permissions,
		attempts:    opts.Attempts,
		metrics:     m,
		logger:      logger,
	}
}

// LoginInput carries one login request. The password is never persisted and
// never logged.
type LoginInput struct {
	Username     string
	Password     string
	CaptchaToken string
	ClientAddr   string
}

// LoginResult is returned for a successful login.
type LoginResult struct {
	Token            string
	Identity         domainauth.Identity
	AllowedReportIDs []string
}

// LoginDenied is the typed failure outcome of a login attempt. It wraps the
// taxonomy error and carries the captcha-required flag the caller must act
// on. The flag reflects the state after this attempt, so the very next
// attempt gets the stricter prompt.
type LoginDenied struct {
	Err             *apperrors.AppError
	CaptchaRequired bool
}

func (d *LoginDenied) Error() string { return d.Err.Error() }

func (d *LoginDenied) Unwrap() error { return d.Err }

// Login runs the authentication flow for one request.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(in.Username)

	// Missing input is rejected before any side effects; counters are
	// untouched.
	if username == "" || in.Password == "" {
		s.metrics.RecordLogin(metrics.OutcomeValidation)
		return nil, &LoginDenied{Err: apperrors.Validation("username and password are required")}
	}

	if s.attempts.ShouldRequireCaptcha(username, in.ClientAddr) {
		s.metrics.RecordCaptchaChallenge()
		if in.CaptchaToken == "" || !s.captcha.Verify(ctx, in.CaptchaToken, in.ClientAddr) {
			s.metrics.RecordLogin(metrics.OutcomeCaptchaRequired)
			return nil, &LoginDenied{
				Err:             apperrors.CaptchaRequired("captcha verification required"),
				CaptchaRequired: true,
			}
		}
	}

	start := time.Now()
	identity, err := s.directory.Authenticate(ctx, username, in.Password)
	s.metrics.RecordDirectoryLatency(time.Since(start))

	if err != nil {
		// Infrastructure failure, not a credential problem: loggable in
		// detail internally, generic externally, and no counter changes.
		s.logger.ErrorContext(ctx, "directory authentication unavailable",
			slog.String("error", err.Error()))
		s.metrics.RecordLogin(metrics.OutcomeUnavailable)
		return nil, &LoginDenied{
			Err:             apperrors.Unavailable("authentication service unavailable", err),
			CaptchaRequired: s.attempts.ShouldRequireCaptcha(username, in.ClientAddr),
		}
	}

	if identity == nil {
		s.attempts.RecordFailure(username, in.ClientAddr)
		// Recompute so the response tells the caller whether the next
		// attempt needs a CAPTCHA.
		required := s.attempts.ShouldRequireCaptcha(username, in.ClientAddr)
		s.logger.InfoContext(ctx, "login rejected",
			slog.String("client_addr", in.ClientAddr),
			slog.Bool("captcha_required_next", required))
		s.metrics.RecordLogin(metrics.OutcomeInvalidCredentials)
		return nil, &LoginDenied{
			Err:             apperrors.InvalidCredentials("invalid credentials"),
			CaptchaRequired: required,
		}
	}

	s.attempts.RecordSuccess(username, in.ClientAddr)

	allowed := s.permissions.Resolve(*identity)

	tok, err := s.tokens.Issue(*identity, allowed)
	if err != nil {
		s.metrics.RecordLogin(metrics.OutcomeUnavailable)
		return nil, &LoginDenied{Err: apperrors.Internal("issue session token", err)}
	}

	s.logger.InfoContext(ctx, "login succeeded",
		slog.String("subject", identity.CanonicalID),
		slog.Int("groups", len(identity.Groups)),
		slog.Int("allowed_reports", len(allowed)))
	s.metrics.RecordLogin(metrics.OutcomeSuccess)

	return &LoginResult{
		Token:            tok,
		Identity:         *identity,
		AllowedReportIDs: allowed,
	}, nil
}

// VerifyToken validates a session token and returns its claims, or nil for
// any invalid token.
func (s *AuthService) VerifyToken(tokenString string) *domainauth.Claims {
	return s.tokens.Verify(tokenString)
}

// AllowedReports returns the report ids for verified claims, preferring the
// set embedded in the token and recomputing from groups when absent.
func (s *AuthService) AllowedReports(claims *domainauth.Claims) []string {
	if claims == nil {
		return []string{}
	}
	if claims.AllowedReportIDs != nil {
		return claims.AllowedReportIDs
	}
	return s.permissions.Resolve(domainauth.Identity{
		CanonicalID: claims.SubjectID,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
		Groups:      claims.Groups,
	})
}
