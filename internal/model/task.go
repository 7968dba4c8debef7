package model

import (
	"errors"
	"time"
)

// Wire formats for the split due fields. The client stores the calendar
// date and the time-of-day separately; combined they form the due instant.
const (
	DueDateLayout = "2006-01-02"
	DueTimeLayout = "15:04:05"
)

// Task represents a single task owned by a user.
type Task struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"-"`
	Text           string     `db:"text" json:"text"`
	Category       string     `db:"category" json:"category"`
	Priority       string     `db:"priority" json:"priority"`
	DueDate        string     `db:"due_date" json:"due_date"` // "2025-05-27"
	DueTime        string     `db:"due_time" json:"due_time"` // "10:05:00"
	Notes          *string    `db:"notes" json:"notes"`
	Completed      bool       `db:"completed" json:"completed"`
	LastNotifiedAt *time.Time `db:"last_notified_at" json:"-"` // set by the due-soon sweep
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// DueInstant combines due_date and due_time into one absolute point in time.
func (t *Task) DueInstant(loc *time.Location) (time.Time, error) {
	instant, err := time.ParseInLocation(DueDateLayout+" "+DueTimeLayout, t.DueDate+" "+t.DueTime, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDueInstant
	}
	return instant, nil
}

// CreateTaskRequest is the request body for POST /tasks and PUT /tasks/{id}.
type CreateTaskRequest struct {
	Text      string  `json:"text"`
	Category  string  `json:"category"`
	Priority  string  `json:"priority"`
	DueDate   string  `json:"due_date"`
	DueTime   string  `json:"due_time"`
	Notes     *string `json:"notes"`
	Completed bool    `json:"completed"`
}

// UpdateTaskRequest is the request body for PATCH /tasks/{id}.
// Nil fields are left untouched.
type UpdateTaskRequest struct {
	Text      *string `json:"text"`
	Category  *string `json:"category"`
	Priority  *string `json:"priority"`
	DueDate   *string `json:"due_date"`
	DueTime   *string `json:"due_time"`
	Notes     *string `json:"notes"`
	Completed *bool   `json:"completed"`
}

// IsEmpty reports whether the PATCH carries no updatable field at all.
func (r *UpdateTaskRequest) IsEmpty() bool {
	return r.Text == nil && r.Category == nil && r.Priority == nil &&
		r.DueDate == nil && r.DueTime == nil && r.Notes == nil && r.Completed == nil
}

// DueReminder is one row produced by the due-soon scan: a task entering the
// lookahead window joined with one of its owner's registered device tokens.
type DueReminder struct {
	TaskID int64  `db:"task_id"`
	UserID int64  `db:"user_id"`
	Text   string `db:"text"`
	Token  string `db:"token"`
}

var (
	// ErrTaskNotFound is returned when a task does not exist or belongs to another user
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidDueInstant is returned when due_date/due_time cannot be combined
	ErrInvalidDueInstant = errors.New("invalid due date or time")
)
