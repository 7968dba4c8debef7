package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"taskly_backend/internal/cache"
	"taskly_backend/internal/model"
	"taskly_backend/internal/repository"
)

// TaskService handles business logic for task operations, including the
// audit trail written to history on every mutation.
type TaskService struct {
	repo        repository.TaskRepository
	historyRepo repository.HistoryRepository
	cache       cache.TaskCache // Can be nil if Redis not configured
}

func NewTaskService(repo repository.TaskRepository, historyRepo repository.HistoryRepository, taskCache cache.TaskCache) *TaskService {
	return &TaskService{
		repo:        repo,
		historyRepo: historyRepo,
		cache:       taskCache,
	}
}

// Create validates and inserts a task, then records an "added" history entry.
func (s *TaskService) Create(ctx context.Context, userID int64, req *model.CreateTaskRequest) (*model.Task, error) {
	if err := validateTaskFields(req.Text, req.Category, req.Priority, req.DueDate, req.DueTime); err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:    userID,
		Text:      strings.TrimSpace(req.Text),
		Category:  req.Category,
		Priority:  req.Priority,
		DueDate:   req.DueDate,
		DueTime:   req.DueTime,
		Notes:     trimNotes(req.Notes),
		Completed: req.Completed,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, userID, model.HistoryActionAdded,
		fmt.Sprintf("%s (Cat:%s, Prio:%s)", task.Text, task.Category, task.Priority))
	s.invalidateCache(ctx, userID)

	return task, nil
}

// List returns all of a user's tasks, newest first, through the cache
// when one is configured.
func (s *TaskService) List(ctx context.Context, userID int64) ([]model.Task, error) {
	if s.cache != nil {
		if tasks, found, err := s.cache.GetList(ctx, userID); err == nil && found {
			return tasks, nil
		}
	}

	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, userID, tasks); err != nil {
			log.Printf("[TaskService] Failed to cache tasks for user %d: %v", userID, err)
		}
	}

	return tasks, nil
}

// Get returns one task scoped to its owner.
func (s *TaskService) Get(ctx context.Context, id, userID int64) (*model.Task, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// Update applies a partial update and records the relevant history entries:
// "edited" when the text changed, "completed" on the false-to-true
// transition only. Re-completing an already-done task writes nothing.
func (s *TaskService) Update(ctx context.Context, id, userID int64, req *model.UpdateTaskRequest) (*model.Task, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("no valid fields to update")
	}
	if req.DueDate != nil {
		if _, err := time.Parse(model.DueDateLayout, *req.DueDate); err != nil {
			return nil, fmt.Errorf("invalid due_date: %w", err)
		}
	}
	if req.DueTime != nil {
		if _, err := time.Parse(model.DueTimeLayout, *req.DueTime); err != nil {
			return nil, fmt.Errorf("invalid due_time: %w", err)
		}
	}

	// Snapshot the task first so history can compare before/after.
	orig, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, userID, req); err != nil {
		return nil, err
	}

	if req.Text != nil && *req.Text != orig.Text {
		s.recordHistory(ctx, userID, model.HistoryActionEdited,
			fmt.Sprintf("%s → %s", orig.Text, *req.Text))
	}
	if req.Completed != nil && *req.Completed && !orig.Completed {
		s.recordHistory(ctx, userID, model.HistoryActionCompleted, orig.Text)
	}
	s.invalidateCache(ctx, userID)

	return s.repo.GetByID(ctx, id, userID)
}

// Replace overwrites every mutable field and always records an "edited" entry.
func (s *TaskService) Replace(ctx context.Context, id, userID int64, req *model.CreateTaskRequest) (*model.Task, error) {
	if err := validateTaskFields(req.Text, req.Category, req.Priority, req.DueDate, req.DueTime); err != nil {
		return nil, err
	}

	orig, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	trimmed := *req
	trimmed.Text = strings.TrimSpace(req.Text)
	trimmed.Notes = trimNotes(req.Notes)

	if err := s.repo.Replace(ctx, id, userID, &trimmed); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, userID, model.HistoryActionEdited,
		fmt.Sprintf("%s → %s", orig.Text, trimmed.Text))
	s.invalidateCache(ctx, userID)

	return s.repo.GetByID(ctx, id, userID)
}

// Delete removes a task and records a "deleted" entry with its text.
func (s *TaskService) Delete(ctx context.Context, id, userID int64) error {
	orig, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.recordHistory(ctx, userID, model.HistoryActionDeleted, orig.Text)
	s.invalidateCache(ctx, userID)
	return nil
}

// recordHistory appends an audit row. History is best-effort: a failed
// insert is logged and never fails the task mutation that triggered it.
func (s *TaskService) recordHistory(ctx context.Context, userID int64, action, text string) {
	if err := s.historyRepo.Create(ctx, userID, action, text); err != nil {
		log.Printf("[TaskService] Failed to record history (%s) for user %d: %v", action, userID, err)
	}
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("[TaskService] Failed to invalidate task cache for user %d: %v", userID, err)
	}
}

func validateTaskFields(text, category, priority, dueDate, dueTime string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	if category == "" {
		return fmt.Errorf("category is required")
	}
	if priority == "" {
		return fmt.Errorf("priority is required")
	}
	if _, err := time.Parse(model.DueDateLayout, dueDate); err != nil {
		return fmt.Errorf("invalid due_date: %w", err)
	}
	if _, err := time.Parse(model.DueTimeLayout, dueTime); err != nil {
		return fmt.Errorf("invalid due_time: %w", err)
	}
	return nil
}

func trimNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
