// Package auth provides the stateless authentication mechanism: signed
// identity tokens and password verification.
package auth

import (
	"context"
	"time"

	"github.com/taskboard/taskboard-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token carrying the caller's
	// id, username, and role. The token is self-contained; no server-side
	// session state is created.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, identity domain.Identity) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing the caller identity if the token is valid.
	// Structural corruption, a bad signature, and expiry all fail validation;
	// callers must treat every failure as a generic authentication failure,
	// though the distinct sentinels may be logged.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID int64 `json:"uid,omitempty"`

	// Role is the user's role at the moment of issuance. Role changes at
	// rest are not reflected until a new token is issued; operations that
	// care re-resolve the current role from the user directory.
	Role domain.Role `json:"role,omitempty"`

	// Standard registered JWT claims. Subject carries the username.
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Identity returns the caller identity encoded in the claims.
// Valid only on claims obtained from a successful ValidateToken.
func (c *Claims) Identity() domain.Identity {
	return domain.Identity{
		ID:       c.UserID,
		Username: c.Subject,
		Role:     c.Role,
	}
}
