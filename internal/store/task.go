package store

import (
	"context"
	"database/sql"

	"github.com/taskboard/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Listings are paginated and ordered per the PageRequest; implementations
// own the sort-field whitelist and fall back to creation time for unknown
// fields.
type TaskStore interface {
	// Create saves a new task to the store, assigning its ID and setting
	// CreatedAt at the moment of persistence.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update overwrites an existing task's mutable fields (title,
	// description, status, owner). CreatedAt is never touched.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Hard delete.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// ListByOwner retrieves one page of the tasks owned by the given user,
	// optionally filtered by status. An empty page is not an error.
	ListByOwner(ctx context.Context, ownerID int64, status *domain.TaskStatus, page PageRequest) (*Page[domain.Task], error)

	// ListAll retrieves one page of all tasks across every owner, optionally
	// filtered by status. An empty page is not an error.
	ListAll(ctx context.Context, status *domain.TaskStatus, page PageRequest) (*Page[domain.Task], error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
