package service

import (
	"strings"
	"sync"

	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
)

// AttemptTracker counts failed logins per identity and per client address.
// Once either counter reaches the threshold the login flow demands a
// CAPTCHA. State is process-local and in-memory: a restart clears it, which
// is acceptable for a soft rate limit.
//
// The two counters are independent: an identity counter is shared across
// addresses and an address counter across identities, so three failures
// from one address with three different accounts still trip the address
// gate.
type AttemptTracker struct {
	threshold int

	mu         sync.Mutex
	byIdentity map[string]int
	byClientIP map[string]int
}

// NewAttemptTracker constructs a tracker that requires a CAPTCHA after
// threshold failures.
func NewAttemptTracker(threshold int) *AttemptTracker {
	if threshold < 1 {
		threshold = 3
	}
	return &AttemptTracker{
		threshold:  threshold,
		byIdentity: make(map[string]int),
		byClientIP: make(map[string]int),
	}
}

// ShouldRequireCaptcha reports whether either counter for the pair has
// reached the threshold.
func (t *AttemptTracker) ShouldRequireCaptcha(identity, addr string) bool {
	key := identityKey(identity)
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byIdentity[key] >= t.threshold || t.byClientIP[addr] >= t.threshold
}

// RecordFailure increments both counters. Called exactly once per failed
// authentication attempt.
func (t *AttemptTracker) RecordFailure(identity, addr string) {
	key := identityKey(identity)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byIdentity[key]++
	t.byClientIP[addr]++
}

// RecordSuccess removes both counters. Called exactly once per successful
// authentication.
func (t *AttemptTracker) RecordSuccess(identity, addr string) {
	key := identityKey(identity)
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byIdentity, key)
	delete(t.byClientIP, addr)
}

// identityKey case-folds the account part so "j.smith", "J.Smith" and
// "j.smith@example.com" share one counter.
func identityKey(identity string) string {
	return strings.ToLower(domainauth.AccountName(identity))
}
