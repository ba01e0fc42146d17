package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mimi/internal/date"
	"mimi/internal/model"
)

// byPriorityThenOrder lists required chores first, then by display order.
const byPriorityThenOrder = "CASE priority WHEN 'required' THEN 0 ELSE 1 END, sort_order ASC, id ASC"

// TaskRepository handles CRUD for task instances.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// CreateMissing inserts tasks, silently skipping any whose (template, date)
// pair already has an instance.
func (r *TaskRepository) CreateMissing(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_id"}, {Name: "scheduled_date"}},
			DoNothing: true,
		}).
		Create(&tasks).Error
	if err != nil {
		return fmt.Errorf("create tasks: %w", err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound when no task has the id.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindForTemplate returns the instance of templateID on d, or
// gorm.ErrRecordNotFound.
func (r *TaskRepository) FindForTemplate(ctx context.Context, templateID uint, d date.Date) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("template_id = ? AND scheduled_date = ?", templateID, d).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListForDate returns the tasks scheduled on d ordered by priority then
// display order.
func (r *TaskRepository) ListForDate(ctx context.Context, d date.Date) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("scheduled_date = ?", d).
		Order(byPriorityThenOrder).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListBetween returns the tasks scheduled from..to inclusive, grouped by
// date in ascending order.
func (r *TaskRepository) ListBetween(ctx context.Context, from, to date.Date) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("scheduled_date >= ? AND scheduled_date <= ?", from, to).
		Order("scheduled_date ASC, " + byPriorityThenOrder).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Delete removes a task and reports whether it existed.
func (r *TaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DetachTemplate turns every instance of templateID into an ad-hoc task.
func (r *TaskRepository) DetachTemplate(ctx context.Context, templateID uint) error {
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("template_id = ?", templateID).
		Update("template_id", nil).Error
	if err != nil {
		return fmt.Errorf("detach tasks: %w", err)
	}
	return nil
}

// MarkSnapshot flags the template-derived tasks on d that are not yet
// snapshots and returns how many changed.
func (r *TaskRepository) MarkSnapshot(ctx context.Context, d date.Date) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("scheduled_date = ? AND template_id IS NOT NULL AND is_snapshot = ?", d, false).
		Update("is_snapshot", true)
	if res.Error != nil {
		return 0, fmt.Errorf("snapshot tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}
