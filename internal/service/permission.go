package service

import (
	"sort"
	"sync"
	"time"

	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
)

// PermissionResolver maps directory group membership to the set of report
// ids a user may open, with a short-lived per-user cache so the same login
// session doesn't recompute on every listing request.
//
// Resolution is strictly default-deny: a group absent from the mapping
// grants nothing and a user with no recognized groups resolves to the
// empty set.
type PermissionResolver struct {
	mapping map[string][]string
	ttl     time.Duration

	mu    sync.Mutex
	cache map[string]permissionCacheEntry

	// now is swappable for TTL tests.
	now func() time.Time
	// onCompute, when set, observes cache misses. Test hook.
	onCompute func(key string)
}

type permissionCacheEntry struct {
	reportIDs []string
	expiresAt time.Time
}

// NewPermissionResolver constructs a resolver over a static group-to-report
// mapping loaded at startup. The mapping is read-only thereafter.
func NewPermissionResolver(mapping map[string][]string, ttl time.Duration) *PermissionResolver {
	if mapping == nil {
		mapping = map[string][]string{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PermissionResolver{
		mapping: mapping,
		ttl:     ttl,
		cache:   make(map[string]permissionCacheEntry),
		now:     time.Now,
	}
}

// Resolve returns the report ids the identity's groups grant. A fresh cache
// entry is returned unchanged; a missing or expired entry is recomputed and
// stored with a new expiry.
func (r *PermissionResolver) Resolve(identity domainauth.Identity) []string {
	key := identity.CacheKey()
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.cache[key]; ok && now.Before(entry.expiresAt) {
		return entry.reportIDs
	}

	if r.onCompute != nil {
		r.onCompute(key)
	}
	ids := r.compute(identity.Groups)
	r.cache[key] = permissionCacheEntry{reportIDs: ids, expiresAt: now.Add(r.ttl)}
	return ids
}

// compute unions the report sets of every recognized group. Output order is
// stable so identical inputs produce identical results.
func (r *PermissionResolver) compute(groups []string) []string {
	seen := make(map[string]struct{})
	for _, group := range groups {
		for _, id := range r.mapping[group] {
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
