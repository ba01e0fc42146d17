package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mimi/internal/date"
	"mimi/internal/model"
	"mimi/internal/repository"
)

// Generate creates the missing instances of every active template that
// recurs on d and returns all tasks scheduled on d. Calling it again
// without other changes returns the same tasks; the unique (template, date)
// index keeps a racing caller from inserting a second copy.
func (s *TaskService) Generate(ctx context.Context, d date.Date) ([]model.Task, error) {
	var tasks []model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		tasks, err = s.generate(ctx, tx, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) generate(ctx context.Context, tx *repository.Store, d date.Date) ([]model.Task, error) {
	existing, err := tx.Tasks.ListForDate(ctx, d)
	if err != nil {
		return nil, err
	}
	represented := make(map[uint]bool, len(existing))
	for _, task := range existing {
		if task.TemplateID != nil {
			represented[*task.TemplateID] = true
		}
	}

	templates, err := tx.Templates.List(ctx, true)
	if err != nil {
		return nil, err
	}

	var missing []model.Task
	for _, template := range templates {
		if represented[template.ID] || !template.Matches(d, s.opts.Location) {
			continue
		}
		missing = append(missing, s.instanceOf(template, d))
	}
	if len(missing) == 0 {
		return existing, nil
	}

	if err := tx.Tasks.CreateMissing(ctx, missing); err != nil {
		return nil, err
	}
	return tx.Tasks.ListForDate(ctx, d)
}

// ensureInstance returns the instance of template on d, creating it when
// absent. Unlike generate it does not consult the active flag or the rule.
func (s *TaskService) ensureInstance(ctx context.Context, tx *repository.Store, template model.Template, d date.Date) (*model.Task, error) {
	task, err := tx.Tasks.FindForTemplate(ctx, template.ID, d)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lookupError("task of template", template.ID, err)
	}

	created := s.instanceOf(template, d)
	if err := tx.Tasks.Create(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// instanceOf snapshots the template's current fields into a pending task.
func (s *TaskService) instanceOf(template model.Template, d date.Date) model.Task {
	templateID := template.ID
	return model.Task{
		TemplateID:      &templateID,
		Title:           template.Title,
		Description:     template.Description,
		Priority:        template.Priority,
		Order:           template.Order,
		ExpectedMinutes: template.ExpectedMinutes,
		ScheduledDate:   d,
		Status:          model.StatusPending,
		CreatedAt:       s.opts.Now(),
	}
}
