package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Notifier is the platform notification primitive the scheduler drives.
// On the device this is backed by the OS notification API; tests use a fake.
type Notifier interface {
	// Schedule arms one timer and returns an opaque handle for cancelling it.
	Schedule(ctx context.Context, content Content, delay, repeatEvery time.Duration) (handle string, err error)

	// Cancel disarms a previously scheduled timer.
	Cancel(ctx context.Context, handle string) error
}

// Scheduler owns the armed timers for the current task list. It tracks
// every handle it creates in its own registry, keyed by task ID, so
// cancellation is scoped to timers this scheduler armed and never touches
// anything else registered with the platform.
//
// Invariant: at most one timer set per task. Callers re-arm by cancelling
// first (Rearm does both), never by adding to an armed task.
type Scheduler struct {
	notifier Notifier
	plan     []Spec

	mu    sync.Mutex
	armed map[int64][]string // task ID -> handles of its armed timers

	now func() time.Time // overridable in tests
}

// NewScheduler creates a scheduler using the given trigger policy.
// A nil plan means DefaultPlan.
func NewScheduler(notifier Notifier, plan []Spec) *Scheduler {
	if plan == nil {
		plan = DefaultPlan()
	}
	return &Scheduler{
		notifier: notifier,
		plan:     plan,
		armed:    make(map[int64][]string),
		now:      time.Now,
	}
}

// ScheduleFor arms the plan's timers for one task. Tasks that yield no
// triggers (completed, already due) are silently skipped. If the task
// already has armed timers they are cancelled first, so scheduling twice
// never accumulates duplicates.
func (s *Scheduler) ScheduleFor(ctx context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cancelTaskLocked(ctx, task.ID); err != nil {
		return err
	}

	triggers := PlanFor(task, s.now(), s.plan)
	if len(triggers) == 0 {
		return nil
	}

	handles := make([]string, 0, len(triggers))
	for _, trigger := range triggers {
		handle, err := s.notifier.Schedule(ctx, trigger.Content, trigger.Delay, trigger.RepeatEvery)
		if err != nil {
			// Best effort. A timer the platform refused stays unarmed;
			// the ones already armed are kept and remain cancellable.
			continue
		}
		handles = append(handles, handle)
	}

	if len(handles) > 0 {
		s.armed[task.ID] = handles
	}
	return nil
}

// CancelTask disarms every timer armed for one task.
func (s *Scheduler) CancelTask(ctx context.Context, taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelTaskLocked(ctx, taskID)
}

// CancelAll disarms every timer this scheduler armed.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for taskID := range s.armed {
		if err := s.cancelTaskLocked(ctx, taskID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Rearm replaces the armed timer set with one derived from the given task
// list: everything currently armed is cancelled, then each incomplete task
// is scheduled fresh. This is the whole-list policy the client applies on
// every task mutation.
func (s *Scheduler) Rearm(ctx context.Context, tasks []Task) error {
	if err := s.CancelAll(ctx); err != nil {
		return err
	}
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		if err := s.ScheduleFor(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// ArmedCount reports how many timers are currently armed across all tasks.
func (s *Scheduler) ArmedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, handles := range s.armed {
		count += len(handles)
	}
	return count
}

// ArmedFor reports how many timers are armed for one task.
func (s *Scheduler) ArmedFor(taskID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.armed[taskID])
}

func (s *Scheduler) cancelTaskLocked(ctx context.Context, taskID int64) error {
	handles, ok := s.armed[taskID]
	if !ok {
		return nil
	}

	var firstErr error
	for _, handle := range handles {
		if err := s.notifier.Cancel(ctx, handle); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cancel timer for task %d: %w", taskID, err)
		}
	}
	delete(s.armed, taskID)
	return firstErr
}
