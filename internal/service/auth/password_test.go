package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherAndVerifier(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost) // MinCost keeps the test fast
	verifier := NewBcryptVerifier()

	hashed, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	t.Run("matching password verifies", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, verifier.Compare(hashed, "correct horse battery staple"))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, verifier.Compare(hashed, "wrong password"))
	})

	t.Run("garbage hash fails", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, verifier.Compare("not-a-bcrypt-hash", "anything"))
	})
}

func TestBcryptHasherDefaultCost(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(0)
	hashed, err := hasher.Hash("some password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hashed))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
