package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal returned by the directory.
// It is a read-only snapshot fetched fresh on every authentication; nothing
// caches it beyond one login flow.
type Identity struct {
	// CanonicalID is the bind identifier, e.g. "J.Smith@example.com".
	CanonicalID string
	DisplayName string
	Email       string
	Groups      []string
}

// CacheKey returns the key under which per-user state (permission cache,
// failure counters) is tracked. Email is preferred because directories are
// inconsistent about principal-name population.
func (i Identity) CacheKey() string {
	if i.Email != "" {
		return i.Email
	}
	return i.CanonicalID
}

// Claims is the public identity surface carried by a session token.
// AllowedReportIDs may be absent; consumers recompute via the permission
// resolver when it is.
type Claims struct {
	SubjectID        string
	Email            string
	DisplayName      string
	Groups           []string
	AllowedReportIDs []string
	IssuedAt         time.Time
	ExpiresAt        time.Time
}

// Identifiers returns every name the claims subject may be known by,
// used when matching against allow-lists kept in short account form.
func (c Claims) Identifiers() []string {
	ids := make([]string, 0, 3)
	if c.SubjectID != "" {
		ids = append(ids, c.SubjectID)
	}
	if c.Email != "" && c.Email != c.SubjectID {
		ids = append(ids, c.Email)
	}
	if short := AccountName(c.SubjectID); short != "" && short != c.SubjectID {
		ids = append(ids, short)
	}
	return ids
}
