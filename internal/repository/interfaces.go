package repository

import (
	"context"
	"time"

	"taskly_backend/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type TaskRepository interface {
	// Create inserts a task and fills in the generated id and timestamps
	Create(ctx context.Context, task *model.Task) error
	// GetByID returns a task scoped to its owner
	GetByID(ctx context.Context, id, userID int64) (*model.Task, error)
	// ListByUser returns all of a user's tasks, newest first
	ListByUser(ctx context.Context, userID int64) ([]model.Task, error)
	// Update applies the non-nil fields of a partial update
	Update(ctx context.Context, id, userID int64, req *model.UpdateTaskRequest) error
	// Replace overwrites every mutable column
	Replace(ctx context.Context, id, userID int64, req *model.CreateTaskRequest) error
	// Delete removes a task scoped to its owner
	Delete(ctx context.Context, id, userID int64) error
	// FindDueSoon returns incomplete, not-yet-notified tasks whose due
	// instant falls in (windowStart, windowEnd], one row per registered
	// device token of the owner
	FindDueSoon(ctx context.Context, windowStart, windowEnd time.Time) ([]model.DueReminder, error)
	// MarkNotified stamps last_notified_at on the given tasks
	MarkNotified(ctx context.Context, taskIDs []int64, at time.Time) error
}

type HistoryRepository interface {
	// Create appends one audit row
	Create(ctx context.Context, userID int64, action, text string) error
	// ListByUser returns a user's history, newest first
	ListByUser(ctx context.Context, userID int64) ([]model.HistoryEntry, error)
	// Delete removes one entry scoped to its owner
	Delete(ctx context.Context, id, userID int64) error
	// DeleteAllForUser clears a user's history
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type DeviceTokenRepository interface {
	// Upsert creates or updates a device token for a user
	Upsert(ctx context.Context, userID int64, token, platform string) error
	// GetByUserID returns all device tokens for a user
	GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error)
	// Delete removes a device token
	Delete(ctx context.Context, token string) error
}
