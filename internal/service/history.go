package service

import (
	"context"

	"taskly_backend/internal/model"
	"taskly_backend/internal/repository"
)

// HistoryService exposes the read and delete side of the audit trail.
// Entries are only ever written by TaskService.
type HistoryService struct {
	repo repository.HistoryRepository
}

func NewHistoryService(repo repository.HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// List returns a user's history, newest first.
func (s *HistoryService) List(ctx context.Context, userID int64) ([]model.HistoryEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes one entry scoped to its owner.
func (s *HistoryService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

// Clear removes every entry for a user.
func (s *HistoryService) Clear(ctx context.Context, userID int64) error {
	return s.repo.DeleteAllForUser(ctx, userID)
}
