package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
	"github.com/espandar/bi-portal/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.DirectoryAuthenticator = (*FakeDirectory)(nil)
	_ ports.CaptchaVerifier        = (*FakeCaptcha)(nil)
	_ ports.TokenService           = (*FakeTokens)(nil)
	_ ports.PermissionResolver     = (*FakePermissions)(nil)
	_ ports.AttemptTracker         = (*FakeAttempts)(nil)
)

// FakeDirectory authenticates against an in-memory credential table.
type FakeDirectory struct {
	// Users maps bind identifiers to passwords.
	Users map[string]string
	// Identities maps bind identifiers to the records search would find.
	Identities map[string]domainauth.Identity
	// Err, when set, simulates an unreachable directory.
	Err error
	// Normalize mirrors the production normalizer; identity function when nil.
	Normalize func(string) string

	mu    sync.Mutex
	Calls []string
}

func (f *FakeDirectory) Authenticate(_ context.Context, username, password string) (*domainauth.Identity, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, username)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}

	key := username
	if f.Normalize != nil {
		key = f.Normalize(username)
	}
	want, ok := f.Users[key]
	if !ok || want != password {
		return nil, nil
	}

	if identity, ok := f.Identities[key]; ok {
		id := identity
		return &id, nil
	}
	return &domainauth.Identity{
		CanonicalID: key,
		DisplayName: domainauth.AccountName(key),
		Email:       key,
		Groups:      []string{},
	}, nil
}

// FakeCaptcha returns a fixed verification result and records calls.
type FakeCaptcha struct {
	Result bool

	mu     sync.Mutex
	Tokens []string
}

func (f *FakeCaptcha) Verify(_ context.Context, token, _ string) bool {
	f.mu.Lock()
	f.Tokens = append(f.Tokens, token)
	f.mu.Unlock()
	return f.Result
}

// FakeTokens issues predictable tokens and verifies from a claims table.
type FakeTokens struct {
	// IssueErr, when set, fails Issue.
	IssueErr error
	// Claims maps token strings to the claims Verify returns.
	Claims map[string]*domainauth.Claims

	mu     sync.Mutex
	Issued []domainauth.Identity
}

func (f *FakeTokens) Issue(identity domainauth.Identity, _ []string) (string, error) {
	f.mu.Lock()
	f.Issued = append(f.Issued, identity)
	f.mu.Unlock()
	if f.IssueErr != nil {
		return "", f.IssueErr
	}
	return "token-" + identity.CanonicalID, nil
}

func (f *FakeTokens) Verify(token string) *domainauth.Claims {
	return f.Claims[token]
}

// FakePermissions resolves every identity to a fixed report set.
type FakePermissions struct {
	ReportIDs []string

	mu       sync.Mutex
	Resolved []string
}

func (f *FakePermissions) Resolve(identity domainauth.Identity) []string {
	f.mu.Lock()
	f.Resolved = append(f.Resolved, identity.CacheKey())
	f.mu.Unlock()
	return f.ReportIDs
}

// FakeAttempts is a scripted attempt tracker.
type FakeAttempts struct {
	Require bool

	mu        sync.Mutex
	Failures  []string
	Successes []string
}

func (f *FakeAttempts) ShouldRequireCaptcha(_, _ string) bool { return f.Require }

func (f *FakeAttempts) RecordFailure(identity, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Failures = append(f.Failures, identity)
}

func (f *FakeAttempts) RecordSuccess(identity, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Successes = append(f.Successes, identity)
}
