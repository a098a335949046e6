package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("alice", "$2a$10$fakehash", RoleUser)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, RoleUser, user.Role)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects empty username", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("", "$2a$10$fakehash", RoleUser)
		assert.ErrorIs(t, err, ErrEmptyUsername)
	})

	t.Run("rejects empty hash", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("alice", "", RoleUser)
		assert.ErrorIs(t, err, ErrEmptyHashedPassword)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("alice", "$2a$10$fakehash", Role("SUPERVISOR"))
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestUserIdentity(t *testing.T) {
	t.Parallel()

	user := &User{ID: 7, Username: "bob", HashedPassword: "h", Role: RoleAdmin}
	identity := user.Identity()

	assert.Equal(t, Identity{ID: 7, Username: "bob", Role: RoleAdmin}, identity)
}
