// Package service provides application-level services for managing tasks and users.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotAuthorized indicates an authenticated caller lacks permission for
	// the requested resource or operation. Distinct from authentication
	// failures; the API layer maps this to HTTP 403 Forbidden.
	ErrNotAuthorized = errors.New("caller is not authorized for this operation")

	// ErrInvalidCredentials indicates a failed login. It deliberately does
	// not reveal whether the username or the password was wrong.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
