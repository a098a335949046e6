package domain

import (
	"errors"
	"time"
)

// Common validation errors
var (
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Role determines the scope of tasks a user may act on.
type Role string

const (
	// RoleUser may only see and manage their own tasks.
	RoleUser Role = "USER"

	// RoleAdmin may see and manage every user's tasks.
	RoleAdmin Role = "ADMIN"
)

// Validate checks that the role is one of the known values.
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAdmin:
		return nil
	default:
		return ErrInvalidRole
	}
}

// Identity is the authenticated caller as established by a validated token:
// id, username, and role. It is threaded explicitly through every operation
// that needs to make an authorization decision.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// User represents a registered user of the application.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given username, bcrypt hash, and role.
// The ID is assigned by the store at creation time.
// Returns an error if validation fails.
func NewUser(username, hashedPassword string, role Role) (*User, error) {
	user := &User{
		Username:       username,
		HashedPassword: hashedPassword,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return u.Role.Validate()
}

// Identity returns the caller identity derived from this user record.
func (u *User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}
