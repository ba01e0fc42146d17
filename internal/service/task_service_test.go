package service

import (
	"context"
	"errors"
	"testing"

	"mimi/internal/model"
)

func TestCreateTaskIsAdHoc(t *testing.T) {
	f := newFixture(t)
	minutes := 20
	task, err := f.tasks.CreateTask(context.Background(), TaskInput{
		Title:           "Ad-hoc Task",
		ExpectedMinutes: &minutes,
		ScheduledDate:   wednesday,
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.TemplateID != nil {
		t.Errorf("TemplateID = %d, want nil", *task.TemplateID)
	}
	if task.ScheduledDate != wednesday || task.ExpectedMinutes != 20 || task.Priority != model.PriorityOptional {
		t.Errorf("task = %+v", task)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var verr ValidationError
	if _, err := f.tasks.CreateTask(ctx, TaskInput{Title: "x"}); !errors.As(err, &verr) || verr.Field != "scheduled_date" {
		t.Errorf("missing date error = %v", err)
	}
	if _, err := f.tasks.CreateTask(ctx, TaskInput{ScheduledDate: monday}); !errors.As(err, &verr) || verr.Field != "title" {
		t.Errorf("missing title error = %v", err)
	}
}

func TestCompleteAndUncompleteTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task, err := f.tasks.CreateTask(ctx, TaskInput{Title: "Dust", ScheduledDate: monday})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	done, err := f.tasks.CompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if done.Status != model.StatusCompleted || done.CompletedAt == nil || !done.CompletedAt.Equal(clock) {
		t.Errorf("completed task = status %q completed_at %v", done.Status, done.CompletedAt)
	}

	reopened, err := f.tasks.UncompleteTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("UncompleteTask failed: %v", err)
	}
	if reopened.Status != model.StatusPending || reopened.CompletedAt != nil {
		t.Errorf("reopened task = status %q completed_at %v", reopened.Status, reopened.CompletedAt)
	}

	stored, err := f.tasks.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if stored.CompletedAt != nil {
		t.Errorf("stored CompletedAt = %v, want nil", stored.CompletedAt)
	}
}

func TestCompleteUnknownTask(t *testing.T) {
	f := newFixture(t)
	if _, err := f.tasks.CompleteTask(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("CompleteTask error = %v, want ErrNotFound", err)
	}
}

func TestUpdateTaskLeavesTemplateAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	kitchen := f.weekly(t, "Clean Kitchen", 0)
	task := f.instanceOn(t, kitchen, monday)

	title := "Kitchen, quick pass"
	priority := model.PriorityOptional
	updated, err := f.tasks.UpdateTask(ctx, task.ID, model.TaskPatch{Title: &title, Priority: &priority})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Title != title || updated.Priority != priority {
		t.Errorf("updated = %q %q", updated.Title, updated.Priority)
	}
	if fresh := f.reload(t, kitchen); fresh.Title != "Clean Kitchen" {
		t.Errorf("template Title = %q, want unchanged", fresh.Title)
	}

	bad := model.Status("archived")
	var verr ValidationError
	if _, err := f.tasks.UpdateTask(ctx, task.ID, model.TaskPatch{Status: &bad}); !errors.As(err, &verr) {
		t.Errorf("bad status error = %v, want ValidationError", err)
	}
}

func TestSnapshotForDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.daily(t, "Vacuum")
	if _, err := f.tasks.CreateTask(ctx, TaskInput{Title: "Water plants", ScheduledDate: monday}); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	f.tasksOn(t, monday)

	for i := 0; i < 2; i++ {
		tasks, err := f.tasks.SnapshotForDate(ctx, monday)
		if err != nil {
			t.Fatalf("SnapshotForDate failed: %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("len(tasks) = %d, want 2", len(tasks))
		}
		for _, task := range tasks {
			if want := task.TemplateID != nil; task.IsSnapshot != want {
				t.Errorf("pass %d: %q IsSnapshot = %v, want %v", i, task.Title, task.IsSnapshot, want)
			}
		}
	}
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	// The fixed clock puts today on Monday 2025-12-29.
	for _, input := range []TaskInput{
		{Title: "today a", ScheduledDate: monday},
		{Title: "today b", ScheduledDate: monday},
		{Title: "two days ago", ScheduledDate: monday.AddDays(-2)},
		{Title: "too old", ScheduledDate: monday.AddDays(-7)},
		{Title: "future", ScheduledDate: tuesday},
	} {
		if _, err := f.tasks.CreateTask(ctx, input); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	history, err := f.tasks.History(ctx, 7)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 7 {
		t.Fatalf("len(history) = %d, want 7", len(history))
	}
	if history[0].Date != monday || len(history[0].Tasks) != 2 {
		t.Errorf("history[0] = %s with %d tasks, want %s with 2", history[0].Date, len(history[0].Tasks), monday)
	}
	if len(history[2].Tasks) != 1 || history[2].Tasks[0].Title != "two days ago" {
		t.Errorf("history[2] = %+v", history[2])
	}
	if history[1].Tasks == nil {
		t.Error("empty day Tasks = nil, want empty slice")
	}

	if _, err := f.tasks.History(ctx, 0); err == nil {
		t.Error("History(0) succeeded, want error")
	}
}
