package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/service/authz"
	"github.com/taskboard/taskboard-api/internal/store"
)

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// ListTasksQuery describes a task listing request.
type ListTasksQuery struct {
	// Status filters by lifecycle status when non-nil.
	Status *domain.TaskStatus

	// Page is the zero-based page index; missing or negative input defaults
	// to zero. The page size is server-controlled.
	Page int

	// Sort is a "field,direction" string. Direction defaults to descending
	// unless the literal "asc"; any malformed value falls back to creation
	// time descending.
	Sort string
}

// CreateTaskCommand describes a task creation request.
type CreateTaskCommand struct {
	// TargetOwnerID, when non-nil, creates the task for another user.
	// Only admins may target anyone other than themselves.
	TargetOwnerID *int64
	Title         string
	Description   string
	// Status defaults to NEW when empty.
	Status domain.TaskStatus
}

// UpdateTaskCommand describes a task update request. Title, description, and
// status always overwrite the stored values.
type UpdateTaskCommand struct {
	TaskID int64
	// NewOwnerID, when non-nil and different from the current owner,
	// reassigns ownership. Honored only for admin callers; ignored otherwise.
	NewOwnerID  *int64
	Title       string
	Description string
	Status      domain.TaskStatus
}

// TaskService is the only component permitted to invoke task storage
// mutations. Every operation re-resolves the caller and the target task's
// current owner before gating through the authorization policy — roles and
// ownership may have changed since token issuance.
type TaskService interface {
	// ListTasks returns one page of tasks: all tasks for admin callers,
	// the caller's own tasks otherwise. An empty page is not an error.
	ListTasks(ctx context.Context, caller domain.Identity, query ListTasksQuery) (*store.Page[domain.Task], error)

	// CreateTask creates a task for the effective target owner (the command's
	// target when present, else the caller).
	// Returns ErrNotAuthorized if the caller may not create for that owner,
	// store.ErrUserNotFound if the target owner does not exist.
	CreateTask(ctx context.Context, caller domain.Identity, cmd CreateTaskCommand) (*domain.Task, error)

	// UpdateTask overwrites the task's fields and optionally reassigns
	// ownership (admin only).
	// Returns store.ErrTaskNotFound if the task is absent, ErrNotAuthorized
	// if the caller is neither owner nor admin, store.ErrUserNotFound if the
	// reassignment target does not exist.
	UpdateTask(ctx context.Context, caller domain.Identity, cmd UpdateTaskCommand) (*domain.Task, error)

	// DeleteTask hard-deletes the task.
	// Returns store.ErrTaskNotFound if the task is absent, ErrNotAuthorized
	// if the caller is neither owner nor admin.
	DeleteTask(ctx context.Context, caller domain.Identity, taskID int64) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	tasks  store.TaskStore
	users  store.UserStore
	db     *sql.DB // Optional; mutating operations run transactionally when set
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// db may be nil, in which case operations run without an enclosing
// transaction (unit tests with fake stores).
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	db *sql.DB,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("%w: task store cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, fmt.Errorf("%w: user store cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		users:  users,
		db:     db,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	caller domain.Identity,
	query ListTasksQuery,
) (*store.Page[domain.Task], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Resolve the caller's current role; the token's role may be stale.
	current, err := s.resolveCaller(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}

	field, ascending := parseSortSpec(query.Sort)
	page := store.PageRequest{
		Index:         query.Page,
		Size:          store.DefaultPageSize,
		SortField:     field,
		SortAscending: ascending,
	}
	if page.Index < 0 {
		page.Index = 0
	}

	var result *store.Page[domain.Task]
	if current.Role == domain.RoleAdmin {
		result, err = s.tasks.ListAll(ctx, query.Status, page)
	} else {
		result, err = s.tasks.ListByOwner(ctx, current.ID, query.Status, page)
	}
	if err != nil {
		return nil, &TaskServiceError{Operation: "list", Message: "failed to list tasks", Err: err}
	}

	log.Debug("tasks listed",
		slog.Int64("caller_id", current.ID),
		slog.String("role", string(current.Role)),
		slog.Int("count", len(result.Items)))
	return result, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	caller domain.Identity,
	cmd CreateTaskCommand,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var created *domain.Task
	err := s.inTransaction(ctx, func(tasks store.TaskStore, users store.UserStore) error {
		current, err := s.resolveCaller(ctx, users, caller)
		if err != nil {
			return err
		}

		// Effective target owner: the command's target when provided, else the caller.
		targetOwnerID := current.ID
		if cmd.TargetOwnerID != nil {
			targetOwnerID = *cmd.TargetOwnerID
		}

		if !authz.CanActOn(current, targetOwnerID, authz.OpCreateTask) {
			log.Warn("task creation denied",
				slog.Int64("caller_id", current.ID),
				slog.Int64("target_owner_id", targetOwnerID))
			return ErrNotAuthorized
		}

		// The target owner must exist even for admins.
		owner, err := users.GetByID(ctx, targetOwnerID)
		if err != nil {
			return err
		}

		task, err := domain.NewTask(targetOwnerID, cmd.Title, cmd.Description, cmd.Status)
		if err != nil {
			return err
		}
		task.OwnerUsername = owner.Username

		if err := tasks.Create(ctx, task); err != nil {
			return &TaskServiceError{Operation: "create", Message: "failed to store task", Err: err}
		}

		created = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task created",
		slog.Int64("task_id", created.ID),
		slog.Int64("owner_id", created.OwnerID),
		slog.Int64("caller_id", caller.ID))
	return created, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	caller domain.Identity,
	cmd UpdateTaskCommand,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := s.inTransaction(ctx, func(tasks store.TaskStore, users store.UserStore) error {
		task, err := tasks.GetByID(ctx, cmd.TaskID)
		if err != nil {
			return err
		}

		current, err := s.resolveCaller(ctx, users, caller)
		if err != nil {
			return err
		}

		// Gate on the task's current owner, never a cached one.
		if !authz.CanActOn(current, task.OwnerID, authz.OpUpdateTask) {
			log.Warn("task update denied",
				slog.Int64("caller_id", current.ID),
				slog.Int64("task_id", task.ID),
				slog.Int64("owner_id", task.OwnerID))
			return ErrNotAuthorized
		}

		task.Apply(cmd.Title, cmd.Description, cmd.Status)

		// Ownership reassignment is honored only for admin callers and only
		// when the new owner differs from the current one.
		if cmd.NewOwnerID != nil && *cmd.NewOwnerID != task.OwnerID &&
			authz.CanActOn(current, task.OwnerID, authz.OpReassignTask) {
			newOwner, err := users.GetByID(ctx, *cmd.NewOwnerID)
			if err != nil {
				return err
			}
			log.Info("task ownership reassigned",
				slog.Int64("task_id", task.ID),
				slog.Int64("from_owner_id", task.OwnerID),
				slog.Int64("to_owner_id", *cmd.NewOwnerID),
				slog.Int64("caller_id", current.ID))
			task.OwnerID = newOwner.ID
			task.OwnerUsername = newOwner.Username
		}

		if err := tasks.Update(ctx, task); err != nil {
			return &TaskServiceError{Operation: "update", Message: "failed to store task", Err: err}
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, caller domain.Identity, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	return s.inTransaction(ctx, func(tasks store.TaskStore, users store.UserStore) error {
		task, err := tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		current, err := s.resolveCaller(ctx, users, caller)
		if err != nil {
			return err
		}

		if !authz.CanActOn(current, task.OwnerID, authz.OpDeleteTask) {
			log.Warn("task deletion denied",
				slog.Int64("caller_id", current.ID),
				slog.Int64("task_id", task.ID),
				slog.Int64("owner_id", task.OwnerID))
			return ErrNotAuthorized
		}

		if err := tasks.Delete(ctx, taskID); err != nil {
			return &TaskServiceError{Operation: "delete", Message: "failed to delete task", Err: err}
		}

		log.Info("task deleted",
			slog.Int64("task_id", taskID),
			slog.Int64("caller_id", current.ID))
		return nil
	})
}

// resolveCaller fetches the caller's current record so role changes at rest
// take effect immediately. A caller that no longer exists is not authorized
// for anything.
func (s *taskServiceImpl) resolveCaller(
	ctx context.Context,
	users store.UserStore,
	caller domain.Identity,
) (domain.Identity, error) {
	user, err := users.GetByID(ctx, caller.ID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return domain.Identity{}, ErrNotAuthorized
		}
		return domain.Identity{}, &TaskServiceError{
			Operation: "resolve_caller",
			Message:   "failed to load caller",
			Err:       err,
		}
	}
	return user.Identity(), nil
}

// inTransaction runs fn against transaction-bound stores when a database is
// configured, so the read-gate-write sequence sees committed owner state.
func (s *taskServiceImpl) inTransaction(
	ctx context.Context,
	fn func(tasks store.TaskStore, users store.UserStore) error,
) error {
	if s.db == nil {
		return fn(s.tasks, s.users)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(s.tasks.WithTx(tx), s.users.WithTx(tx))
	})
}

// parseSortSpec parses a "field,direction" sort string. Exactly two tokens
// are required; anything else falls back to creation time descending. The
// direction is ascending only for the literal "asc".
func parseSortSpec(sort string) (field string, ascending bool) {
	const defaultField = "created_at"

	parts := strings.Split(sort, ",")
	if len(parts) != 2 {
		return defaultField, false
	}

	field = strings.TrimSpace(parts[0])
	if field == "" {
		return defaultField, false
	}

	return field, strings.EqualFold(strings.TrimSpace(parts[1]), "asc")
}
