package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/store"
)

// taskSortColumns whitelists the sortable columns. Sort fields arrive
// uninterpreted from the caller; anything not listed here falls back to
// creation time so arbitrary input never reaches the ORDER BY clause.
var taskSortColumns = map[string]string{
	"id":         "t.id",
	"title":      "t.title",
	"status":     "t.status",
	"created_at": "t.created_at",
}

// defaultTaskSortColumn orders listings when no recognized sort field is given.
const defaultTaskSortColumn = "t.created_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task, assigning the ID and setting CreatedAt server-side at
// the moment of persistence.
// Returns store.ErrInvalidEntity if the owner does not exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", task.OwnerID))
		return err
	}

	task.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO tasks (title, description, status, created_at, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.OwnerID,
	).Scan(&task.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.Int64("owner_id", task.OwnerID))
			return fmt.Errorf("%w: user with ID %d not found",
				store.ErrInvalidEntity, task.OwnerID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", task.OwnerID))
		return err
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.title, t.description, t.status, t.created_at, t.user_id, u.username
		FROM tasks t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`

	var task domain.Task
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&task.CreatedAt,
		&task.OwnerID,
		&task.OwnerUsername,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	return &task, nil
}

// Update implements store.TaskStore.Update
// It overwrites title, description, status, and owner. CreatedAt is immutable.
// Returns store.ErrTaskNotFound if the task does not exist.
// Returns store.ErrInvalidEntity if the new owner does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, user_id = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.OwnerID,
		task.ID,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task update",
				slog.String("error", err.Error()),
				slog.Int64("task_id", task.ID),
				slog.Int64("owner_id", task.OwnerID))
			return fmt.Errorf("%w: user with ID %d not found",
				store.ErrInvalidEntity, task.OwnerID)
		}

		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for update", slog.Int64("task_id", task.ID))
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// Hard delete. Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// ListByOwner implements store.TaskStore.ListByOwner
func (s *PostgresTaskStore) ListByOwner(
	ctx context.Context,
	ownerID int64,
	status *domain.TaskStatus,
	page store.PageRequest,
) (*store.Page[domain.Task], error) {
	where := `WHERE t.user_id = $1`
	args := []any{ownerID}
	if status != nil {
		where += ` AND t.status = $2`
		args = append(args, *status)
	}
	return s.list(ctx, where, args, page)
}

// ListAll implements store.TaskStore.ListAll
func (s *PostgresTaskStore) ListAll(
	ctx context.Context,
	status *domain.TaskStatus,
	page store.PageRequest,
) (*store.Page[domain.Task], error) {
	where := ``
	args := []any{}
	if status != nil {
		where = `WHERE t.status = $1`
		args = append(args, *status)
	}
	return s.list(ctx, where, args, page)
}

// WithTx implements store.TaskStore.WithTx
// It returns a new store bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// list runs a paginated, ordered task query for the given WHERE clause.
func (s *PostgresTaskStore) list(
	ctx context.Context,
	where string,
	args []any,
	page store.PageRequest,
) (*store.Page[domain.Task], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page.Index < 0 {
		page.Index = 0
	}
	if page.Size <= 0 {
		page.Size = store.DefaultPageSize
	}

	column, ok := taskSortColumns[page.SortField]
	if !ok {
		column = defaultTaskSortColumn
	}
	direction := "DESC"
	if page.SortAscending {
		direction = "ASC"
	}

	countQuery := `SELECT COUNT(*) FROM tasks t ` + where
	var totalCount int64
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.title, t.description, t.status, t.created_at, t.user_id, u.username
		FROM tasks t
		JOIN users u ON u.id = t.user_id %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, column, direction, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Index*page.Size)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []domain.Task{}
	for rows.Next() {
		var task domain.Task
		var statusStr string

		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&statusStr,
			&task.CreatedAt,
			&task.OwnerID,
			&task.OwnerUsername,
		)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}

		task.Status = domain.TaskStatus(statusStr)
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed tasks",
		slog.Int("count", len(tasks)),
		slog.Int64("total", totalCount),
		slog.Int("page", page.Index))
	return store.NewPage(tasks, page, totalCount), nil
}
