package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)

	assert.NoError(t, hasher.Compare(hash, "secret-password"))
	assert.Error(t, hasher.Compare(hash, "wrong-password"))
}

func TestCostClamping(t *testing.T) {
	hasher := NewBcryptHasher(9999)

	hash, err := hasher.Hash("secret-password")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "secret-password"))
}
