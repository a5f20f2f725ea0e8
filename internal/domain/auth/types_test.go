package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_CacheKey(t *testing.T) {
	withEmail := Identity{CanonicalID: "j.smith@example.com", Email: "john.smith@example.com"}
	assert.Equal(t, "john.smith@example.com", withEmail.CacheKey())

	withoutEmail := Identity{CanonicalID: "j.smith@example.com"}
	assert.Equal(t, "j.smith@example.com", withoutEmail.CacheKey())
}

func TestClaims_Identifiers(t *testing.T) {
	claims := Claims{SubjectID: "j.smith@example.com", Email: "john.smith@example.com"}
	assert.Equal(t,
		[]string{"j.smith@example.com", "john.smith@example.com", "j.smith"},
		claims.Identifiers())
}

func TestClaims_Identifiers_NoDuplicates(t *testing.T) {
	claims := Claims{SubjectID: "admin", Email: "admin"}
	assert.Equal(t, []string{"admin"}, claims.Identifiers())
}

func TestClaims_Identifiers_Empty(t *testing.T) {
	assert.Empty(t, Claims{}.Identifiers())
}
