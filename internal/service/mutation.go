package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mimi/internal/date"
	"mimi/internal/model"
	"mimi/internal/recurrence"
	"mimi/internal/repository"
)

// OrderUpdate sets the display order of one task.
type OrderUpdate struct {
	ID    uint `json:"id"`
	Order int  `json:"order"`
}

// DeleteTask removes a task. Deleting an occurrence of a weekly or daily
// template also removes that weekday from the template's rule so the
// occurrence is not generated again; a template left with no weekday is
// deactivated instead. Rule change and delete commit together.
func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(ctx, id)
		if err != nil {
			return lookupError("task", id, err)
		}

		if task.TemplateID != nil {
			template, err := s.owningTemplate(ctx, tx, task)
			if err != nil {
				return err
			}
			if template != nil {
				if changed := s.applyRule(template, template.Drop(task.ScheduledDate.Weekday())); changed {
					if err := tx.Templates.Save(ctx, template); err != nil {
						return err
					}
				}
			}
		}

		_, err = tx.Tasks.Delete(ctx, task.ID)
		return err
	})
}

// MoveTask reschedules a task onto target with the given display order and
// returns the task that now stands for it.
//
// Ad-hoc and monthly tasks move in place. For weekly and daily templates
// the move is recorded in the rule: the source weekday is swapped for the
// target weekday, the old instance is deleted, and the instance on target
// is generated or fetched. Moving onto a weekday the template already has
// merges the two occurrences.
func (s *TaskService) MoveTask(ctx context.Context, id uint, target date.Date, order int) (*model.Task, error) {
	var moved *model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(ctx, id)
		if err != nil {
			return lookupError("task", id, err)
		}
		template, err := s.owningTemplate(ctx, tx, task)
		if err != nil {
			return err
		}

		if template == nil || template.Kind == recurrence.Monthly || template.Kind == recurrence.None {
			moved, err = s.moveInPlace(ctx, tx, task, target, order)
			return err
		}

		from, to := task.ScheduledDate.Weekday(), target.Weekday()
		if task.ScheduledDate == target || (template.Kind == recurrence.Daily && from == to) {
			moved, err = s.reorder(ctx, tx, task, order)
			return err
		}

		merge := template.Kind == recurrence.Weekly && from != to && template.Weekdays.Has(to)
		s.applyRule(template, template.Shift(from, to))
		if !merge {
			template.Order = order
		}
		template.UpdatedAt = s.opts.Now()
		if err := tx.Templates.Save(ctx, template); err != nil {
			return err
		}
		if _, err := tx.Tasks.Delete(ctx, task.ID); err != nil {
			return err
		}

		moved, err = s.ensureInstance(ctx, tx, *template, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// ReorderTask sets a task's display order and, for template-derived tasks,
// the template's too so later instances inherit it.
func (s *TaskService) ReorderTask(ctx context.Context, id uint, order int) (*model.Task, error) {
	var reordered *model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(ctx, id)
		if err != nil {
			return lookupError("task", id, err)
		}
		reordered, err = s.reorder(ctx, tx, task, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reordered, nil
}

// ReorderTasks applies every update or none of them.
func (s *TaskService) ReorderTasks(ctx context.Context, updates []OrderUpdate) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		for _, u := range updates {
			task, err := tx.Tasks.FindByID(ctx, u.ID)
			if err != nil {
				return lookupError("task", u.ID, err)
			}
			if _, err := s.reorder(ctx, tx, task, u.Order); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TaskService) reorder(ctx context.Context, tx *repository.Store, task *model.Task, order int) (*model.Task, error) {
	task.Order = order
	if err := tx.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	template, err := s.owningTemplate(ctx, tx, task)
	if err != nil {
		return nil, err
	}
	if template != nil {
		template.Order = order
		template.UpdatedAt = s.opts.Now()
		if err := tx.Templates.Save(ctx, template); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// moveInPlace changes the date and order of a task that carries no weekday
// pattern. If its template already has an instance on target, the moved
// task is folded into that one.
func (s *TaskService) moveInPlace(ctx context.Context, tx *repository.Store, task *model.Task, target date.Date, order int) (*model.Task, error) {
	if task.TemplateID != nil && task.ScheduledDate != target {
		existing, err := tx.Tasks.FindForTemplate(ctx, *task.TemplateID, target)
		switch {
		case err == nil:
			if _, err := tx.Tasks.Delete(ctx, task.ID); err != nil {
				return nil, err
			}
			return existing, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, lookupError("task of template", *task.TemplateID, err)
		}
	}

	task.ScheduledDate = target
	task.Order = order
	if err := tx.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// owningTemplate loads the task's template. It returns nil for ad-hoc
// tasks and for tasks whose template no longer exists.
func (s *TaskService) owningTemplate(ctx context.Context, tx *repository.Store, task *model.Task) (*model.Template, error) {
	if task.TemplateID == nil {
		return nil, nil
	}
	template, err := tx.Templates.FindByID(ctx, *task.TemplateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, lookupError("template", *task.TemplateID, err)
	}
	return template, nil
}

// applyRule installs next on template and reports whether anything
// changed. A rule that can no longer match deactivates the template and
// leaves its last live pattern in place.
func (s *TaskService) applyRule(template *model.Template, next recurrence.Rule) bool {
	if next == template.Rule {
		return false
	}
	if next.Live() {
		template.Rule = next
	} else {
		template.IsActive = false
	}
	template.UpdatedAt = s.opts.Now()
	return true
}
