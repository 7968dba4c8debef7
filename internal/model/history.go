package model

import (
	"errors"
	"time"
)

// History actions written by task mutations.
const (
	HistoryActionAdded     = "added"
	HistoryActionEdited    = "edited"
	HistoryActionDeleted   = "deleted"
	HistoryActionCompleted = "completed"
)

// HistoryEntry is one append-only audit row describing a task mutation.
type HistoryEntry struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Action    string    `db:"action" json:"action"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"date"`
}

// ErrHistoryEntryNotFound is returned when a history entry does not exist
// or belongs to another user
var ErrHistoryEntryNotFound = errors.New("history entry not found")
