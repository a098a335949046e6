package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxDescriptionLength bounds the task description, matching the column width.
const MaxDescriptionLength = 1000

// Common validation errors
var (
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrDescriptionTooLong = fmt.Errorf("description must be at most %d characters", MaxDescriptionLength)
	ErrEmptyOwner         = errors.New("task must have an owner")
)

// TaskStatus is the lifecycle label of a task. The set is closed but no
// transition graph is enforced; any authorized mutator may set any value.
type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "NEW"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Validate checks that the status is one of the known values.
func (s TaskStatus) Validate() error {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusCompleted:
		return nil
	default:
		return ErrInvalidTaskStatus
	}
}

// Task represents a unit of work owned by exactly one user.
// CreatedAt is set once by the store at the moment of persistence and is
// immutable afterwards. Ownership is reassignable only by an admin caller.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	OwnerID     int64      `json:"owner_id"`

	// OwnerUsername is denormalized from the owning user record. The store
	// fills it on reads via a join; services set it on writes from the
	// resolved owner. It is never persisted on the tasks table and is not
	// part of validation.
	OwnerUsername string `json:"owner_username"`
}

// NewTask creates a new Task for the given owner. The title is trimmed and
// the status defaults to NEW when absent. The ID and CreatedAt are assigned
// by the store at creation time.
// Returns an error if validation fails.
func NewTask(ownerID int64, title, description string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusNew
	}

	task := &Task{
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      status,
		OwnerID:     ownerID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}

	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if t.OwnerID == 0 {
		return ErrEmptyOwner
	}

	return t.Status.Validate()
}

// Apply overwrites the mutable fields from the given instructions. The title
// is trimmed; CreatedAt and ownership are untouched (ownership changes go
// through reassignment in the service layer).
func (t *Task) Apply(title, description string, status TaskStatus) {
	t.Title = strings.TrimSpace(title)
	t.Description = description
	t.Status = status
}
