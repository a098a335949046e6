package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service/auth"
)

func newLoginFixture(t *testing.T) (*fakeUserStore, UserService) {
	t.Helper()

	users := newFakeUserStore()

	hash, err := bcrypt.GenerateFromPassword([]byte("alice-password"), bcrypt.MinCost)
	require.NoError(t, err)

	alice := users.add("alice", domain.RoleUser)
	alice.HashedPassword = string(hash)

	jwtService := auth.NewTestJWTService(
		"test-secret-that-is-long-enough-for-testing",
		time.Hour,
		time.Now,
	)

	svc, err := NewUserService(users, jwtService, auth.NewBcryptVerifier(), nil)
	require.NoError(t, err)

	return users, svc
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		_, svc := newLoginFixture(t)

		result, err := svc.Login(context.Background(), "alice", "alice-password")
		require.NoError(t, err)

		assert.Equal(t, "alice", result.User.Username)
		assert.Equal(t, domain.RoleUser, result.User.Role)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		_, svc := newLoginFixture(t)

		_, err := svc.Login(context.Background(), "alice", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		t.Parallel()
		_, svc := newLoginFixture(t)

		// Must be indistinguishable from a wrong password.
		_, err := svc.Login(context.Background(), "mallory", "alice-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	t.Run("admin lists all users", func(t *testing.T) {
		t.Parallel()
		users, svc := newLoginFixture(t)
		admin := users.add("root", domain.RoleAdmin)
		users.add("bob", domain.RoleUser)

		listed, err := svc.ListUsers(context.Background(), admin.Identity())
		require.NoError(t, err)
		require.Len(t, listed, 3)
		assert.Equal(t, "alice", listed[0].Username)
	})

	t.Run("non-admin is denied", func(t *testing.T) {
		t.Parallel()
		users, svc := newLoginFixture(t)
		alice, err := users.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)

		_, err = svc.ListUsers(context.Background(), alice.Identity())
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("stale admin token is denied after demotion", func(t *testing.T) {
		t.Parallel()
		users, svc := newLoginFixture(t)
		admin := users.add("root", domain.RoleAdmin)

		// The caller presents an admin identity but the record says USER now.
		staleIdentity := admin.Identity()
		users.users[admin.ID].Role = domain.RoleUser

		_, err := svc.ListUsers(context.Background(), staleIdentity)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("deleted caller is denied", func(t *testing.T) {
		t.Parallel()
		_, svc := newLoginFixture(t)

		ghost := domain.Identity{ID: 999, Username: "ghost", Role: domain.RoleAdmin}
		_, err := svc.ListUsers(context.Background(), ghost)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})
}
