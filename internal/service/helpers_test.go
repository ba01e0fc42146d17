package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"mimi/internal/date"
	"mimi/internal/model"
	"mimi/internal/recurrence"
	"mimi/internal/repository"
)

// The week of 2025-12-29: Monday through Sunday.
var (
	monday    = date.New(2025, time.December, 29)
	tuesday   = date.New(2025, time.December, 30)
	wednesday = date.New(2025, time.December, 31)
	thursday  = date.New(2026, time.January, 1)
	friday    = date.New(2026, time.January, 2)
	saturday  = date.New(2026, time.January, 3)
	sunday    = date.New(2026, time.January, 4)
)

var clock = time.Date(2025, time.December, 29, 9, 0, 0, 0, time.UTC)

type fixture struct {
	templates *TemplateService
	tasks     *TaskService
	store     *repository.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB("file:"+name+"?mode=memory&cache=shared", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { _ = repository.Close(db) })

	store := repository.NewStore(db)
	opts := Options{Now: func() time.Time { return clock }, Location: time.UTC}
	return fixture{
		templates: NewTemplateService(store, opts),
		tasks:     NewTaskService(store, opts),
		store:     store,
	}
}

func (f fixture) weekly(t *testing.T, title string, days ...int) *model.Template {
	t.Helper()
	return f.template(t, TemplateInput{
		Title:      title,
		Priority:   model.PriorityRequired,
		RepeatType: recurrence.Weekly,
		Weekdays:   recurrence.NewWeekdays(days...),
	})
}

func (f fixture) daily(t *testing.T, title string) *model.Template {
	t.Helper()
	return f.template(t, TemplateInput{Title: title, RepeatType: recurrence.Daily})
}

func (f fixture) template(t *testing.T, input TemplateInput) *model.Template {
	t.Helper()
	template, err := f.templates.CreateTemplate(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateTemplate(%q) failed: %v", input.Title, err)
	}
	return template
}

func (f fixture) tasksOn(t *testing.T, d date.Date) []model.Task {
	t.Helper()
	tasks, err := f.tasks.TasksForDate(context.Background(), d)
	if err != nil {
		t.Fatalf("TasksForDate(%s) failed: %v", d, err)
	}
	return tasks
}

// instanceOn generates d and returns the single instance of template.
func (f fixture) instanceOn(t *testing.T, template *model.Template, d date.Date) model.Task {
	t.Helper()
	found := instancesOf(f.tasksOn(t, d), template.ID)
	if len(found) != 1 {
		t.Fatalf("instances of %q on %s = %d, want 1", template.Title, d, len(found))
	}
	return found[0]
}

func (f fixture) reload(t *testing.T, template *model.Template) *model.Template {
	t.Helper()
	fresh, err := f.templates.GetTemplate(context.Background(), template.ID)
	if err != nil {
		t.Fatalf("GetTemplate(%d) failed: %v", template.ID, err)
	}
	return fresh
}

func instancesOf(tasks []model.Task, templateID uint) []model.Task {
	var found []model.Task
	for _, task := range tasks {
		if task.TemplateID != nil && *task.TemplateID == templateID {
			found = append(found, task)
		}
	}
	return found
}

func taskIDs(tasks []model.Task) []uint {
	ids := make([]uint, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
