package api

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	Token    string      `json:"token"`
}

// UserResponse represents one user in directory listings.
type UserResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// CreateTaskRequest defines the payload for task creation.
// TargetUserID lets an admin create the task for another user.
type CreateTaskRequest struct {
	TargetUserID *int64 `json:"target_user_id,omitempty"`
	Title        string `json:"title"                    validate:"required"`
	Description  string `json:"description"              validate:"omitempty,max=1000"`
	Status       string `json:"status"                   validate:"omitempty,oneof=NEW IN_PROGRESS COMPLETED"`
}

// UpdateTaskRequest defines the payload for task updates.
// TargetUserID lets an admin reassign ownership.
type UpdateTaskRequest struct {
	TargetUserID *int64 `json:"target_user_id,omitempty"`
	Title        string `json:"title"                    validate:"required"`
	Description  string `json:"description"              validate:"omitempty,max=1000"`
	Status       string `json:"status"                   validate:"required,oneof=NEW IN_PROGRESS COMPLETED"`
}

// TaskResponse represents one task in API responses. The owner is exposed as
// both id and username so clients can render assignees without a second
// lookup.
type TaskResponse struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Status        domain.TaskStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	OwnerID       int64             `json:"owner_id"`
	OwnerUsername string            `json:"owner_username"`
}

// TaskPageResponse is one page of tasks.
type TaskPageResponse struct {
	Items      []TaskResponse `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalCount int64          `json:"total_count"`
	TotalPages int            `json:"total_pages"`
}

// taskToResponse transforms a domain task into its response shape.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		CreatedAt:     task.CreatedAt,
		OwnerID:       task.OwnerID,
		OwnerUsername: task.OwnerUsername,
	}
}

// taskPageToResponse transforms a store page into its response shape.
func taskPageToResponse(page *store.Page[domain.Task]) TaskPageResponse {
	items := make([]TaskResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, taskToResponse(&page.Items[i]))
	}
	return TaskPageResponse{
		Items:      items,
		Page:       page.Index,
		PageSize:   page.Size,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}
}

// userToResponse transforms a domain user into its response shape.
func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}
