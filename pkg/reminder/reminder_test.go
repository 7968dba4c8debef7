package reminder

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return parsed
}

func TestPlanFor_FullPlan(t *testing.T) {
	// Task due in 15 minutes: every entry of the default plan applies.
	now := mustTime(t, "2025-05-27 09:45:00")
	task := Task{
		ID:    1,
		Text:  "Pay rent",
		DueAt: mustTime(t, "2025-05-27 10:00:00"),
	}

	triggers := PlanFor(task, now, DefaultPlan())

	want := []struct {
		delay       time.Duration
		repeatEvery time.Duration
		title       string
		body        string
	}{
		{300 * time.Second, 0, "Upcoming Task Due", `"Pay rent" is due in 10 minutes!`},
		{600 * time.Second, 0, "Last Reminder: 5 Minutes Left", `"Pay rent" is due in 5 minutes!`},
		{900 * time.Second, 0, "Task Due Now", `"Pay rent" is due now!`},
		{1500 * time.Second, 600 * time.Second, "Task Still Due", `"Pay rent" is still due. Please complete it ASAP!`},
	}

	if len(triggers) != len(want) {
		t.Fatalf("got %d triggers, want %d", len(triggers), len(want))
	}
	for i, w := range want {
		got := triggers[i]
		if got.Delay != w.delay {
			t.Errorf("trigger %d delay = %v, want %v", i, got.Delay, w.delay)
		}
		if got.RepeatEvery != w.repeatEvery {
			t.Errorf("trigger %d repeatEvery = %v, want %v", i, got.RepeatEvery, w.repeatEvery)
		}
		if got.Content.Title != w.title {
			t.Errorf("trigger %d title = %q, want %q", i, got.Content.Title, w.title)
		}
		if got.Content.Body != w.body {
			t.Errorf("trigger %d body = %q, want %q", i, got.Content.Body, w.body)
		}
	}
}

func TestPlanFor_DropsPassedOffsets(t *testing.T) {
	// Due in 3 minutes: the 10- and 5-minute heads-ups are already in the
	// past and must be dropped, leaving due-now and the repeating nag.
	now := mustTime(t, "2025-05-27 09:57:00")
	task := Task{ID: 1, Text: "Pay rent", DueAt: mustTime(t, "2025-05-27 10:00:00")}

	triggers := PlanFor(task, now, DefaultPlan())

	if len(triggers) != 2 {
		t.Fatalf("got %d triggers, want 2", len(triggers))
	}
	if triggers[0].Delay != 180*time.Second {
		t.Errorf("due-now delay = %v, want 180s", triggers[0].Delay)
	}
	if triggers[1].Delay != 780*time.Second {
		t.Errorf("still-due delay = %v, want 780s", triggers[1].Delay)
	}
	if triggers[1].RepeatEvery != 600*time.Second {
		t.Errorf("still-due repeatEvery = %v, want 600s", triggers[1].RepeatEvery)
	}
}

func TestPlanFor_CompletedTask(t *testing.T) {
	now := mustTime(t, "2025-05-27 09:45:00")
	task := Task{ID: 1, Text: "Pay rent", DueAt: mustTime(t, "2025-05-27 10:00:00"), Completed: true}

	if triggers := PlanFor(task, now, DefaultPlan()); triggers != nil {
		t.Fatalf("completed task yielded %d triggers, want none", len(triggers))
	}
}

func TestPlanFor_AlreadyDue(t *testing.T) {
	now := mustTime(t, "2025-05-27 10:00:00")
	task := Task{ID: 1, Text: "Pay rent", DueAt: mustTime(t, "2025-05-27 10:00:00")}

	if triggers := PlanFor(task, now, DefaultPlan()); triggers != nil {
		t.Fatalf("already-due task yielded %d triggers, want none", len(triggers))
	}

	task.DueAt = mustTime(t, "2025-05-27 09:00:00")
	if triggers := PlanFor(task, now, DefaultPlan()); triggers != nil {
		t.Fatalf("past-due task yielded %d triggers, want none", len(triggers))
	}
}

func TestPlanFor_CustomPlan(t *testing.T) {
	now := mustTime(t, "2025-05-27 09:59:00")
	task := Task{ID: 1, Text: "Standup", DueAt: mustTime(t, "2025-05-27 10:00:00")}

	plan := []Spec{
		{Offset: -30 * time.Second, Title: "Soon", BodyFormat: "%s soon"},
	}

	triggers := PlanFor(task, now, plan)
	if len(triggers) != 1 {
		t.Fatalf("got %d triggers, want 1", len(triggers))
	}
	if triggers[0].Delay != 30*time.Second {
		t.Errorf("delay = %v, want 30s", triggers[0].Delay)
	}
	if triggers[0].Content.Body != "Standup soon" {
		t.Errorf("body = %q, want %q", triggers[0].Content.Body, "Standup soon")
	}
}
