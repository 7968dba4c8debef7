package reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fakeNotifier stands in for the platform notification API. It hands out
// sequential handles and remembers which are still armed.
type fakeNotifier struct {
	next       int
	armed      map[string]Content
	scheduleFn func(content Content, delay, repeatEvery time.Duration) error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{armed: make(map[string]Content)}
}

func (f *fakeNotifier) Schedule(ctx context.Context, content Content, delay, repeatEvery time.Duration) (string, error) {
	if f.scheduleFn != nil {
		if err := f.scheduleFn(content, delay, repeatEvery); err != nil {
			return "", err
		}
	}
	f.next++
	handle := fmt.Sprintf("timer-%d", f.next)
	f.armed[handle] = content
	return handle, nil
}

func (f *fakeNotifier) Cancel(ctx context.Context, handle string) error {
	if _, ok := f.armed[handle]; !ok {
		return errors.New("unknown handle")
	}
	delete(f.armed, handle)
	return nil
}

func testScheduler(notifier *fakeNotifier, now time.Time) *Scheduler {
	s := NewScheduler(notifier, nil)
	s.now = func() time.Time { return now }
	return s
}

func TestScheduler_ScheduleFor(t *testing.T) {
	now := mustTime(t, "2025-05-27 09:45:00")
	notifier := newFakeNotifier()
	s := testScheduler(notifier, now)

	task := Task{ID: 1, Text: "Pay rent", DueAt: mustTime(t, "2025-05-27 10:00:00")}
	if err := s.ScheduleFor(context.Background(), task); err != nil {
		t.Fatalf("ScheduleFor failed: %v", err)
	}

	if got := s.ArmedFor(1); got != 4 {
		t.Errorf("armed timers for task 1 = %d, want 4", got)
	}
	if got := len(notifier.armed); got != 4 {
		t.Errorf("platform timers = %d, want 4", got)
	}
}

func TestScheduler_ScheduleForTwiceDoesNotAccumulate(t *testing.T) {
	now := mustTime(t, "2025-05-27 09:45:00")
	notifier := newFakeNotifier()
	s := testScheduler(notifier, now)

	task := Task{ID: 1, Text: "Pay rent", DueAt: mustTime(t, "2025-05-27 10:00:00")}
	for i := 0; i < 2; i++ {
		if err := s.ScheduleFor(context.Background(), task); err != nil {
			t.Fatalf("ScheduleFor failed: %v", err)
		}
	}

	if got := s.ArmedFor(1); got != 4 {
		t.Errorf("armed timers after double schedule = %d, want 4", got)
	}
	if got := len(notifier.armed); got != 4 {
		t.Errorf("platform timers after double schedule = %d, want 4", got)
	}
}

func TestScheduler_CancelAllThenScheduleIsIdempotent(t *testing.T) {
	now := mustTime(t, "2025-05-27 09:45:00")
	notifier := newFakeNotifier()
	s := testScheduler(notifier, now)

	task := Task{ID: 7, Text: "Water plants", DueAt: mustTime(t, "2025-05-27 10:00:00")}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.CancelAll(ctx); err != nil {
			t.Fatalf("CancelAll failed: %v", err)
		}
		if err := s.ScheduleFor(ctx, task); err != nil {
			t.Fatalf("ScheduleFor failed: %v", err)
		}
	}

	if got := s.ArmedCount(); got != 4 {
		t.Errorf("armed timers after repeated rearm = %d, want 4", got)
	}
	if got := len(notifier.armed); got != 4 {
		t.Errorf("platform timers after repeated rearm = %d, want 4", got)
	}
}

func TestScheduler_RearmDropsRemovedTasks(t *testing.T) {
	now := mustTime(t, "2025-05-27 09:45:00")
	notifier := newFakeNotifier()
	s := testScheduler(notifier, now)
	ctx := context.Background()

	due := mustTime(t, "2025-05-27 10:00:00")
	first := []Task{
		{ID: 1, Text: "Pay rent", DueAt: due},
		{ID: 2, Text: "Call dentist", DueAt: due},
	}
	if err := s.Rearm(ctx, first); err != nil {
		t.Fatalf("Rearm failed: %v", err)
	}

	// Task 2 removed, task 3 added, task 1 now completed.
	second := []Task{
		{ID: 1, Text: "Pay rent", DueAt: due, Completed: true},
		{ID: 3, Text: "Buy groceries", DueAt: due},
	}
	if err := s.Rearm(ctx, second); err != nil {
		t.Fatalf("Rearm failed: %v", err)
	}

	if got := s.ArmedFor(1); got != 0 {
		t.Errorf("completed task still has %d timers", got)
	}
	if got := s.ArmedFor(2); got != 0 {
		t.Errorf("removed task still has %d timers", got)
	}
	if got := s.ArmedFor(3); got != 4 {
		t.Errorf("armed timers for task 3 = %d, want 4", got)
	}
	if got := len(notifier.armed); got != 4 {
		t.Errorf("platform timers = %d, want 4", got)
	}
}

func TestScheduler_PlatformRefusalIsBestEffort(t *testing.T) {
	now := mustTime(t, "2025-05-27 09:45:00")
	notifier := newFakeNotifier()
	notifier.scheduleFn = func(content Content, delay, repeatEvery time.Duration) error {
		if content.Title == "Task Due Now" {
			return errors.New("platform refused")
		}
		return nil
	}
	s := testScheduler(notifier, now)

	task := Task{ID: 1, Text: "Pay rent", DueAt: mustTime(t, "2025-05-27 10:00:00")}
	if err := s.ScheduleFor(context.Background(), task); err != nil {
		t.Fatalf("ScheduleFor failed: %v", err)
	}

	// The refused timer is dropped, the rest stay armed and cancellable.
	if got := s.ArmedFor(1); got != 3 {
		t.Errorf("armed timers = %d, want 3", got)
	}
	if err := s.CancelTask(context.Background(), 1); err != nil {
		t.Fatalf("CancelTask failed: %v", err)
	}
	if got := len(notifier.armed); got != 0 {
		t.Errorf("platform timers after cancel = %d, want 0", got)
	}
}
