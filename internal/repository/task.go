package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"taskly_backend/internal/model"
)

// taskColumns selects the task row with due_date/due_time rendered in the
// wire formats the mobile client stores them in.
const taskColumns = `
	id, user_id, text, category, priority,
	to_char(due_date, 'YYYY-MM-DD') AS due_date,
	to_char(due_time, 'HH24:MI:SS') AS due_time,
	notes, completed, last_notified_at, created_at, updated_at
`

// timestampLayout is how window bounds are rendered for comparison against
// the (due_date + due_time) timestamp, which carries no zone.
const timestampLayout = "2006-01-02 15:04:05"

type taskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create inserts a task and fills in the generated id and timestamps.
func (r *taskRepository) Create(ctx context.Context, t *model.Task) error {
	query := `
		INSERT INTO tasks (user_id, text, category, priority, due_date, due_time, notes, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		t.UserID,
		t.Text,
		t.Category,
		t.Priority,
		t.DueDate,
		t.DueTime,
		t.Notes,
		t.Completed,
	)

	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetByID retrieves a task scoped to its owner.
func (r *taskRepository) GetByID(ctx context.Context, id, userID int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	var t model.Task
	err := r.db.GetContext(ctx, &t, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &t, nil
}

// ListByUser returns all of a user's tasks, newest first.
func (r *taskRepository) ListByUser(ctx context.Context, userID int64) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`

	tasks := []model.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the non-nil fields of a partial update. The SET clause is
// built from a fixed column whitelist; nothing from the request reaches the
// SQL text itself.
func (r *taskRepository) Update(ctx context.Context, id, userID int64, req *model.UpdateTaskRequest) error {
	sets := make([]string, 0, 8)
	args := make([]interface{}, 0, 10)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Text != nil {
		add("text", *req.Text)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Priority != nil {
		add("priority", *req.Priority)
	}
	if req.DueDate != nil {
		add("due_date", *req.DueDate)
	}
	if req.DueTime != nil {
		add("due_time", *req.DueTime)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}
	if req.Completed != nil {
		add("completed", *req.Completed)
	}

	if len(sets) == 0 {
		return nil
	}

	// Moving the due instant re-arms server push for the task.
	if req.DueDate != nil || req.DueTime != nil {
		sets = append(sets, "last_notified_at = NULL")
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id, userID)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), len(args)-1, len(args),
	)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

// Replace overwrites every mutable column.
func (r *taskRepository) Replace(ctx context.Context, id, userID int64, req *model.CreateTaskRequest) error {
	query := `
		UPDATE tasks
		SET text = $1, category = $2, priority = $3, due_date = $4,
		    due_time = $5, notes = $6, completed = $7,
		    last_notified_at = NULL, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		req.Text, req.Category, req.Priority, req.DueDate,
		req.DueTime, req.Notes, req.Completed, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to replace task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read replace result: %w", err)
	}
	if rows == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

// Delete removes a task scoped to its owner.
func (r *taskRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return model.ErrTaskNotFound
	}
	return nil
}

// FindDueSoon returns incomplete, not-yet-notified tasks whose due instant
// falls in the half-open window (windowStart, windowEnd], joined with every
// registered device token of the owner. Users with no registered device
// produce no rows. The bounds compare against the combined timestamp, so a
// window crossing a minute, hour, or day boundary needs no special casing.
func (r *taskRepository) FindDueSoon(ctx context.Context, windowStart, windowEnd time.Time) ([]model.DueReminder, error) {
	query := `
		SELECT t.id AS task_id, t.user_id, t.text, d.token
		FROM tasks AS t
		JOIN device_tokens AS d ON d.user_id = t.user_id
		WHERE t.completed = FALSE
		  AND (t.due_date + t.due_time) > $1::timestamp
		  AND (t.due_date + t.due_time) <= $2::timestamp
		  AND (t.last_notified_at IS NULL OR t.last_notified_at < $3)
		ORDER BY t.id
	`

	reminders := []model.DueReminder{}
	err := r.db.SelectContext(ctx, &reminders, query,
		windowStart.Format(timestampLayout),
		windowEnd.Format(timestampLayout),
		windowStart,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find due tasks: %w", err)
	}
	return reminders, nil
}

// MarkNotified stamps last_notified_at on the given tasks.
func (r *taskRepository) MarkNotified(ctx context.Context, taskIDs []int64, at time.Time) error {
	if len(taskIDs) == 0 {
		return nil
	}

	query := `UPDATE tasks SET last_notified_at = $1 WHERE id = ANY($2)`
	_, err := r.db.ExecContext(ctx, query, at, pq.Array(taskIDs))
	if err != nil {
		return fmt.Errorf("failed to mark tasks notified: %w", err)
	}
	return nil
}
