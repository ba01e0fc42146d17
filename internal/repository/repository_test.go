package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"gorm.io/gorm"

	"mimi/internal/date"
	"mimi/internal/model"
	"mimi/internal/recurrence"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := NewDB("file:"+t.Name()+"?mode=memory&cache=shared", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return NewStore(db)
}

func newTemplate(t *testing.T, store *Store, title string, rule recurrence.Rule) *model.Template {
	t.Helper()
	template := &model.Template{
		Title:     title,
		Priority:  model.PriorityOptional,
		Rule:      rule,
		IsActive:  true,
		CreatedAt: time.Date(2025, time.December, 29, 9, 0, 0, 0, time.UTC),
	}
	if err := store.Templates.Create(context.Background(), template); err != nil {
		t.Fatalf("Create template failed: %v", err)
	}
	return template
}

func TestTemplateRuleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	rule := recurrence.Rule{Kind: recurrence.Weekly, Weekdays: recurrence.NewWeekdays(4, 0, 2)}
	created := newTemplate(t, store, "Clean Kitchen", rule)

	loaded, err := store.Templates.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if loaded.Rule != rule {
		t.Errorf("Rule = %+v, want %+v", loaded.Rule, rule)
	}

	var raw string
	if err := store.db.Raw("SELECT weekdays FROM task_templates WHERE id = ?", created.ID).Scan(&raw).Error; err != nil {
		t.Fatalf("raw select failed: %v", err)
	}
	if raw != "0,2,4" {
		t.Errorf("stored weekdays = %q, want %q", raw, "0,2,4")
	}
}

func TestFindByIDMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Tasks.FindByID(context.Background(), 42); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Tasks.FindByID error = %v, want ErrRecordNotFound", err)
	}
	if _, err := store.Templates.FindByID(context.Background(), 42); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Templates.FindByID error = %v, want ErrRecordNotFound", err)
	}
}

func TestCreateMissingSkipsExistingInstances(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	template := newTemplate(t, store, "Vacuum", recurrence.Rule{Kind: recurrence.Daily})
	day := date.New(2025, time.December, 29)

	instance := func(title string) model.Task {
		return model.Task{
			TemplateID:    &template.ID,
			Title:         title,
			Priority:      model.PriorityOptional,
			ScheduledDate: day,
			Status:        model.StatusPending,
		}
	}
	if err := store.Tasks.CreateMissing(ctx, []model.Task{instance("first")}); err != nil {
		t.Fatalf("CreateMissing failed: %v", err)
	}
	if err := store.Tasks.CreateMissing(ctx, []model.Task{instance("second")}); err != nil {
		t.Fatalf("second CreateMissing failed: %v", err)
	}

	tasks, err := store.Tasks.ListForDate(ctx, day)
	if err != nil {
		t.Fatalf("ListForDate failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "first" {
		t.Errorf("tasks = %+v, want only the first instance", tasks)
	}

	// Ad-hoc tasks carry no template and never collide.
	for i := 0; i < 2; i++ {
		adhoc := model.Task{Title: "Water plants", Priority: model.PriorityOptional, ScheduledDate: day, Status: model.StatusPending}
		if err := store.Tasks.Create(ctx, &adhoc); err != nil {
			t.Fatalf("Create ad-hoc failed: %v", err)
		}
	}
	if tasks, _ := store.Tasks.ListForDate(ctx, day); len(tasks) != 3 {
		t.Errorf("len(tasks) = %d, want 3", len(tasks))
	}
}

func TestListBetweenIsInclusive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	start := date.New(2025, time.December, 30)
	for i := 0; i < 4; i++ {
		task := model.Task{Title: "day", Priority: model.PriorityOptional, ScheduledDate: start.AddDays(i), Status: model.StatusPending}
		if err := store.Tasks.Create(ctx, &task); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	tasks, err := store.Tasks.ListBetween(ctx, start.AddDays(1), start.AddDays(2))
	if err != nil {
		t.Fatalf("ListBetween failed: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ScheduledDate != start.AddDays(1) || tasks[1].ScheduledDate != start.AddDays(2) {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	template := newTemplate(t, store, "Vacuum", recurrence.Rule{Kind: recurrence.Daily})

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.Templates.Delete(ctx, template.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v, want boom", err)
	}
	if _, err := store.Templates.FindByID(ctx, template.ID); err != nil {
		t.Errorf("template gone after rollback: %v", err)
	}
}

func TestMarkSnapshotOnlyTemplateTasks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	template := newTemplate(t, store, "Vacuum", recurrence.Rule{Kind: recurrence.Daily})
	day := date.New(2025, time.December, 29)

	generated := model.Task{TemplateID: &template.ID, Title: "Vacuum", Priority: model.PriorityOptional, ScheduledDate: day, Status: model.StatusPending}
	adhoc := model.Task{Title: "Water plants", Priority: model.PriorityOptional, ScheduledDate: day, Status: model.StatusPending}
	for _, task := range []*model.Task{&generated, &adhoc} {
		if err := store.Tasks.Create(ctx, task); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := store.Tasks.MarkSnapshot(ctx, day)
	if err != nil {
		t.Fatalf("MarkSnapshot failed: %v", err)
	}
	if n != 1 {
		t.Errorf("marked = %d, want 1", n)
	}
	if n, _ := store.Tasks.MarkSnapshot(ctx, day); n != 0 {
		t.Errorf("second MarkSnapshot marked %d, want 0", n)
	}
}
