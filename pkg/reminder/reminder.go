// Package reminder computes and arms device-local notification timers for
// tasks. It is consumed by the mobile client: given the current task list,
// it keeps at most one set of armed timers per task, re-derived from
// scratch whenever the list changes.
package reminder

import (
	"fmt"
	"time"
)

// Task is the slice of a task the scheduler needs.
type Task struct {
	ID        int64
	Text      string
	DueAt     time.Time
	Completed bool
}

// Content is what the platform shows when a timer fires.
type Content struct {
	Title string
	Body  string
}

// Spec is one entry of the trigger policy: fire Offset after the due
// instant (negative means before), optionally repeating.
type Spec struct {
	Offset      time.Duration
	RepeatEvery time.Duration // zero means one-shot
	Title       string
	BodyFormat  string // fed the task text
}

// Trigger is one armed-timer request derived from a Spec: fire Delay from
// now, then every RepeatEvery if non-zero.
type Trigger struct {
	Delay       time.Duration
	RepeatEvery time.Duration
	Content     Content
}

// DefaultPlan is the standard reminder policy: heads-up at ten and five
// minutes before the due instant, an alert at the instant itself, and a
// nag every ten minutes afterwards until the task is completed.
func DefaultPlan() []Spec {
	return []Spec{
		{Offset: -10 * time.Minute, Title: "Upcoming Task Due", BodyFormat: `"%s" is due in 10 minutes!`},
		{Offset: -5 * time.Minute, Title: "Last Reminder: 5 Minutes Left", BodyFormat: `"%s" is due in 5 minutes!`},
		{Offset: 0, Title: "Task Due Now", BodyFormat: `"%s" is due now!`},
		{Offset: 10 * time.Minute, RepeatEvery: 10 * time.Minute, Title: "Task Still Due", BodyFormat: `"%s" is still due. Please complete it ASAP!`},
	}
}

// PlanFor derives the triggers to arm for one task at the given instant.
// Completed and already-due tasks yield nothing: arming them would be a
// no-op at best and a stale alert at worst. Specs whose fire time has
// already passed are dropped individually, so a task due in three minutes
// still gets its due-now and still-due triggers.
func PlanFor(task Task, now time.Time, plan []Spec) []Trigger {
	if task.Completed {
		return nil
	}

	untilDue := task.DueAt.Sub(now)
	if untilDue <= 0 {
		return nil
	}

	triggers := make([]Trigger, 0, len(plan))
	for _, spec := range plan {
		delay := untilDue + spec.Offset
		if delay <= 0 {
			continue
		}
		triggers = append(triggers, Trigger{
			Delay:       delay,
			RepeatEvery: spec.RepeatEvery,
			Content: Content{
				Title: spec.Title,
				Body:  fmt.Sprintf(spec.BodyFormat, task.Text),
			},
		})
	}
	return triggers
}
