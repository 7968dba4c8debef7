package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"taskly_backend/internal/model"
	"taskly_backend/internal/service"
)

const (
	// DefaultSweepInterval is how often the sweep tick runs
	DefaultSweepInterval = time.Minute

	// DefaultLookahead is how far ahead of now the sweep looks for due tasks
	DefaultLookahead = 5 * time.Minute

	// sweepWindow is the width of each tick's match window. It equals the
	// tick interval so consecutive windows tile the timeline: every due
	// instant lands in exactly one tick's window.
	sweepWindow = time.Minute
)

// TaskSource is the slice of the task repository the sweep consumes.
type TaskSource interface {
	FindDueSoon(ctx context.Context, windowStart, windowEnd time.Time) ([]model.DueReminder, error)
	MarkNotified(ctx context.Context, taskIDs []int64, at time.Time) error
}

// Pusher dispatches one chunk of push messages.
type Pusher interface {
	Send(ctx context.Context, messages []service.PushMessage) error
}

// Sweeper periodically scans for tasks entering the lookahead window and
// pushes a reminder to each owner's registered devices. It runs
// independently of request traffic.
type Sweeper struct {
	tasks     TaskSource
	pusher    Pusher
	interval  time.Duration
	lookahead time.Duration
	loc       *time.Location
	now       func() time.Time // overridable in tests

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// SweeperConfig holds configuration for the due-task sweeper.
type SweeperConfig struct {
	Interval  time.Duration  // Tick cadence
	Lookahead time.Duration  // How far ahead to match due tasks
	Location  *time.Location // Zone the due timestamps are interpreted in
}

// NewSweeper creates a new due-task sweeper.
func NewSweeper(tasks TaskSource, pusher Pusher, cfg SweeperConfig) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = DefaultLookahead
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Sweeper{
		tasks:     tasks,
		pusher:    pusher,
		interval:  cfg.Interval,
		lookahead: cfg.Lookahead,
		loc:       cfg.Location,
		now:       time.Now,
	}
}

// Start begins the sweep loop.
// Call Stop() to gracefully shut down.
func (s *Sweeper) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)

	log.Printf("[Sweeper] Starting: interval=%s lookahead=%s tz=%s",
		s.interval, s.lookahead, s.loc)

	s.wg.Add(1)
	go s.run()
}

// Stop gracefully shuts down the sweep loop.
// Blocks until the in-flight tick, if any, has finished.
func (s *Sweeper) Stop() {
	log.Printf("[Sweeper] Stopping...")
	s.cancel()
	s.wg.Wait()
	log.Printf("[Sweeper] Stopped")
}

func (s *Sweeper) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(s.ctx)
		}
	}
}

// SweepOnce runs a single sweep tick. A panic or error inside one tick is
// logged and never disables future ticks.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Sweeper] Tick panicked: %v", r)
		}
	}()

	now := s.now().In(s.loc)

	// Match tasks due in the half-open window (T-1m, T] where T = now +
	// lookahead. Subtracting from the full instant keeps the bound correct
	// across minute, hour, and day boundaries.
	windowEnd := now.Add(s.lookahead)
	windowStart := windowEnd.Add(-sweepWindow)

	reminders, err := s.tasks.FindDueSoon(ctx, windowStart, windowEnd)
	if err != nil {
		log.Printf("[Sweeper] Failed to query due tasks: %v", err)
		return
	}
	if len(reminders) == 0 {
		return
	}

	// Tokens that would be rejected by the push API are a non-match, not
	// an error.
	valid := make([]model.DueReminder, 0, len(reminders))
	for _, r := range reminders {
		if !service.IsExpoPushToken(r.Token) {
			log.Printf("[Sweeper] Skipping invalid push token for task %d", r.TaskID)
			continue
		}
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return
	}

	messages := make([]service.PushMessage, len(valid))
	for i, r := range valid {
		messages[i] = service.PushMessage{
			To:    r.Token,
			Title: "Reminder: 5 Minutes Left",
			Body:  `"` + r.Text + `" is due in 5 minutes.`,
			Data:  map[string]interface{}{"task_id": r.TaskID},
			Sound: "default",
		}
	}

	// Dispatch chunk by chunk. One failed chunk is logged and skipped so
	// the rest still go out; its tasks stay unstamped and are retried by
	// a later tick while they remain in a window.
	sentIDs := make([]int64, 0, len(valid))
	for start := 0; start < len(messages); start += service.ExpoChunkSize {
		end := start + service.ExpoChunkSize
		if end > len(messages) {
			end = len(messages)
		}

		if err := s.pusher.Send(ctx, messages[start:end]); err != nil {
			log.Printf("[Sweeper] Failed to send chunk of %d: %v", end-start, err)
			continue
		}
		for _, r := range valid[start:end] {
			sentIDs = append(sentIDs, r.TaskID)
		}
	}

	sent := dedupe(sentIDs)
	if len(sent) == 0 {
		return
	}

	// Stamping after dispatch keeps delivery at-least-once: a crash
	// between send and stamp re-sends rather than drops. The stamp is the
	// window end, so any later tick whose window still covers the task
	// sees last_notified_at >= its own window start and skips it.
	if err := s.tasks.MarkNotified(ctx, sent, windowEnd); err != nil {
		log.Printf("[Sweeper] Failed to mark %d tasks notified: %v", len(sent), err)
	}

	log.Printf("[Sweeper] Notified %d tasks due in (%s, %s]",
		len(sent), windowStart.Format("15:04:05"), windowEnd.Format("15:04:05"))
}

// dedupe collapses repeated task IDs, which occur when one owner has
// several registered devices.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
