package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/service"
	"github.com/taskboard/taskboard-api/internal/service/auth"
	"github.com/taskboard/taskboard-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not authorized", service.ErrNotAuthorized, http.StatusForbidden},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", store.ErrTaskNotFound), http.StatusNotFound},
		{"username exists", store.ErrUsernameExists, http.StatusConflict},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"empty title", domain.ErrEmptyTitle, http.StatusBadRequest},
		{"description too long", domain.ErrDescriptionTooLong, http.StatusBadRequest},
		{"invalid status", domain.ErrInvalidTaskStatus, http.StatusBadRequest},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"unknown error", errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("known errors get specific messages", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
		assert.Equal(t, "User not found", GetSafeErrorMessage(store.ErrUserNotFound))
		assert.Equal(t, "Invalid credentials", GetSafeErrorMessage(service.ErrInvalidCredentials))
		assert.Equal(t, "You are not allowed to perform this operation", GetSafeErrorMessage(service.ErrNotAuthorized))
	})

	t.Run("internal details never leak", func(t *testing.T) {
		t.Parallel()
		internal := errors.New("pq: connection refused on 10.0.0.5:5432")
		msg := GetSafeErrorMessage(internal)
		assert.Equal(t, "An unexpected error occurred", msg)
		assert.NotContains(t, msg, "10.0.0.5")
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})
}
