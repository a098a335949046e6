package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service/auth"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func newTestMiddleware() (*AuthMiddleware, auth.JWTService) {
	jwtService := auth.NewTestJWTService(testSecret, time.Hour, time.Now)
	return NewAuthMiddleware(jwtService), jwtService
}

// identityCapturingHandler records the identity the middleware placed in the
// request context.
func identityCapturingHandler(captured *domain.Identity, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if identity, ok := shared.IdentityFromContext(r.Context()); ok {
			*captured = identity
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	identity := domain.Identity{ID: 2, Username: "alice", Role: domain.RoleUser}

	t.Run("valid token passes identity through", func(t *testing.T) {
		t.Parallel()
		mw, jwtService := newTestMiddleware()

		token, err := jwtService.GenerateToken(context.Background(), identity)
		require.NoError(t, err)

		var captured domain.Identity
		var called bool
		handler := mw.Authenticate(identityCapturingHandler(&captured, &called))

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, identity, captured)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()
		mw, _ := newTestMiddleware()

		var captured domain.Identity
		var called bool
		handler := mw.Authenticate(identityCapturingHandler(&captured, &called))

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("malformed header", func(t *testing.T) {
		t.Parallel()
		mw, jwtService := newTestMiddleware()

		token, err := jwtService.GenerateToken(context.Background(), identity)
		require.NoError(t, err)

		for _, header := range []string{
			"Basic dXNlcjpwYXNz",
			"Bearer",
			"Bearer " + token + " extra",
			token,
		} {
			var called bool
			var captured domain.Identity
			handler := mw.Authenticate(identityCapturingHandler(&captured, &called))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header=%q", header)
			assert.False(t, called, "header=%q", header)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()
		mw, _ := newTestMiddleware()

		var called bool
		var captured domain.Identity
		handler := mw.Authenticate(identityCapturingHandler(&captured, &called))

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		issuedAt := time.Now().Add(-2 * time.Hour)
		genService := auth.NewTestJWTService(testSecret, time.Hour, func() time.Time {
			return issuedAt
		})
		token, err := genService.GenerateToken(context.Background(), identity)
		require.NoError(t, err)

		mw, _ := newTestMiddleware()

		var called bool
		var captured domain.Identity
		handler := mw.Authenticate(identityCapturingHandler(&captured, &called))

		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}
