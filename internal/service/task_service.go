package service

import (
	"context"
	"strings"

	"mimi/internal/date"
	"mimi/internal/model"
	"mimi/internal/repository"
)

// TaskInput represents data required to create an ad-hoc task.
type TaskInput struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Priority        model.Priority `json:"priority"`
	Order           int            `json:"order"`
	ExpectedMinutes *int           `json:"expected_minutes"`
	ScheduledDate   date.Date      `json:"scheduled_date"`
}

// DayTasks are the tasks scheduled on one date.
type DayTasks struct {
	Date  date.Date
	Tasks []model.Task
}

// TaskService wraps task-related business logic.
type TaskService struct {
	store *repository.Store
	opts  Options
}

func NewTaskService(store *repository.Store, opts Options) *TaskService {
	return &TaskService{store: store, opts: opts.withDefaults()}
}

// Today is the current calendar day in the configured location.
func (s *TaskService) Today() date.Date {
	return s.opts.today()
}

// TasksForDate materializes the instances due on d and returns every task
// scheduled that day. It is safe to call on every read.
func (s *TaskService) TasksForDate(ctx context.Context, d date.Date) ([]model.Task, error) {
	return s.Generate(ctx, d)
}

func (s *TaskService) TasksForToday(ctx context.Context) ([]model.Task, error) {
	return s.Generate(ctx, s.Today())
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.store.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("task", id, err)
	}
	return task, nil
}

// CreateTask adds a one-off task that belongs to no template.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if input.ScheduledDate.IsZero() {
		return nil, ValidationError{Field: "scheduled_date", Reason: "is required"}
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityOptional
	}
	if !priority.Valid() {
		return nil, ValidationError{Field: "priority", Reason: "unknown value " + string(priority)}
	}
	minutes := defaultExpectedMinutes
	if input.ExpectedMinutes != nil {
		minutes = *input.ExpectedMinutes
	}
	if minutes < 0 {
		return nil, ValidationError{Field: "expected_minutes", Reason: "must not be negative"}
	}

	task := model.Task{
		Title:           title,
		Description:     strings.TrimSpace(input.Description),
		Priority:        priority,
		Order:           input.Order,
		ExpectedMinutes: minutes,
		ScheduledDate:   input.ScheduledDate,
		Status:          model.StatusPending,
		CreatedAt:       s.opts.Now(),
	}
	if err := s.store.Tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteTask marks a task as done.
func (s *TaskService) CompleteTask(ctx context.Context, id uint) (*model.Task, error) {
	status := model.StatusCompleted
	return s.UpdateTask(ctx, id, model.TaskPatch{Status: &status})
}

// UncompleteTask reopens a task.
func (s *TaskService) UncompleteTask(ctx context.Context, id uint) (*model.Task, error) {
	status := model.StatusPending
	return s.UpdateTask(ctx, id, model.TaskPatch{Status: &status})
}

// UpdateTask applies the set fields of patch to a single instance. The
// owning template is not touched.
func (s *TaskService) UpdateTask(ctx context.Context, id uint, patch model.TaskPatch) (*model.Task, error) {
	if err := validateTaskPatch(patch); err != nil {
		return nil, err
	}
	task, err := s.store.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("task", id, err)
	}

	patch.Apply(task, s.opts.Now())
	if err := s.store.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SnapshotForDate marks the template-derived tasks on d as historical
// records and returns all tasks of the day.
func (s *TaskService) SnapshotForDate(ctx context.Context, d date.Date) ([]model.Task, error) {
	var tasks []model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Tasks.MarkSnapshot(ctx, d); err != nil {
			return err
		}
		var err error
		tasks, err = tx.Tasks.ListForDate(ctx, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// History returns today and the days-1 days before it, newest first. It
// only reads; days that were never viewed have no generated tasks.
func (s *TaskService) History(ctx context.Context, days int) ([]DayTasks, error) {
	if days <= 0 {
		return nil, ValidationError{Field: "days", Reason: "must be positive"}
	}
	today := s.Today()
	from := today.AddDays(-(days - 1))

	tasks, err := s.store.Tasks.ListBetween(ctx, from, today)
	if err != nil {
		return nil, err
	}
	byDate := make(map[date.Date][]model.Task)
	for _, task := range tasks {
		byDate[task.ScheduledDate] = append(byDate[task.ScheduledDate], task)
	}

	history := make([]DayTasks, 0, days)
	for d := today; !d.Before(from); d = d.AddDays(-1) {
		dayTasks := byDate[d]
		if dayTasks == nil {
			dayTasks = []model.Task{}
		}
		history = append(history, DayTasks{Date: d, Tasks: dayTasks})
	}
	return history, nil
}

func validateTaskPatch(patch model.TaskPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return ValidationError{Field: "status", Reason: "unknown value " + string(*patch.Status)}
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return ValidationError{Field: "priority", Reason: "unknown value " + string(*patch.Priority)}
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if patch.ExpectedMinutes != nil && *patch.ExpectedMinutes < 0 {
		return ValidationError{Field: "expected_minutes", Reason: "must not be negative"}
	}
	return nil
}
