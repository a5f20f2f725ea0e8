package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
)

var testMapping = map[string][]string{
	"BI_Sales_Viewers": {"IME Sales Report"},
	"BI_GMR_Viewers":   {"EBSC Monthly Report", "ECIC Monthly Report"},
	"BI_Everyone":      {"ECIC Performance Report"},
}

func TestPermissionResolver_UnionsGroups(t *testing.T) {
	resolver := NewPermissionResolver(testMapping, time.Minute)

	identity := domainauth.Identity{
		Email:  "j.smith@example.com",
		Groups: []string{"BI_Sales_Viewers", "BI_Everyone"},
	}

	assert.Equal(t,
		[]string{"ECIC Performance Report", "IME Sales Report"},
		resolver.Resolve(identity))
}

func TestPermissionResolver_DefaultDeny(t *testing.T) {
	resolver := NewPermissionResolver(testMapping, time.Minute)

	noGroups := domainauth.Identity{Email: "a@example.com", Groups: []string{}}
	assert.Empty(t, resolver.Resolve(noGroups))

	unknownGroups := domainauth.Identity{Email: "b@example.com", Groups: []string{"Unknown_Group"}}
	assert.Empty(t, resolver.Resolve(unknownGroups))

	nilGroups := domainauth.Identity{Email: "c@example.com"}
	assert.Empty(t, resolver.Resolve(nilGroups))
}

func TestPermissionResolver_NilMapping(t *testing.T) {
	resolver := NewPermissionResolver(nil, time.Minute)
	identity := domainauth.Identity{Email: "a@example.com", Groups: []string{"BI_Sales_Viewers"}}
	assert.Empty(t, resolver.Resolve(identity))
}

func TestPermissionResolver_CachesWithinTTL(t *testing.T) {
	resolver := NewPermissionResolver(testMapping, 10*time.Minute)

	computes := 0
	resolver.onCompute = func(string) { computes++ }

	identity := domainauth.Identity{
		Email:  "j.smith@example.com",
		Groups: []string{"BI_Sales_Viewers"},
	}

	first := resolver.Resolve(identity)
	second := resolver.Resolve(identity)

	require.Equal(t, first, second)
	assert.Equal(t, 1, computes, "second resolve within TTL must not recompute")
}

func TestPermissionResolver_RecomputesAfterExpiry(t *testing.T) {
	resolver := NewPermissionResolver(testMapping, 10*time.Minute)

	computes := 0
	resolver.onCompute = func(string) { computes++ }

	now := time.Now()
	resolver.now = func() time.Time { return now }

	identity := domainauth.Identity{
		Email:  "j.smith@example.com",
		Groups: []string{"BI_Sales_Viewers"},
	}

	resolver.Resolve(identity)
	now = now.Add(11 * time.Minute)
	resolver.Resolve(identity)

	assert.Equal(t, 2, computes)
}

func TestPermissionResolver_CacheKeyPrefersEmail(t *testing.T) {
	resolver := NewPermissionResolver(testMapping, time.Minute)

	computes := make([]string, 0, 2)
	resolver.onCompute = func(key string) { computes = append(computes, key) }

	resolver.Resolve(domainauth.Identity{
		CanonicalID: "j.smith@example.com",
		Email:       "john.smith@example.com",
		Groups:      []string{"BI_Everyone"},
	})
	resolver.Resolve(domainauth.Identity{
		CanonicalID: "a.jones@example.com",
		Groups:      []string{"BI_Everyone"},
	})

	assert.Equal(t, []string{"john.smith@example.com", "a.jones@example.com"}, computes)
}

func TestPermissionResolver_ScenarioSalesViewer(t *testing.T) {
	resolver := NewPermissionResolver(testMapping, time.Minute)

	// Group name as extracted from "CN=BI_Sales_Viewers,OU=Groups,...".
	identity := domainauth.Identity{
		Email:  "j.smith@example.com",
		Groups: []string{"BI_Sales_Viewers"},
	}

	assert.Equal(t, []string{"IME Sales Report"}, resolver.Resolve(identity))
}
