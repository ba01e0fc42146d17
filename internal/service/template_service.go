package service

import (
	"context"
	"fmt"
	"strings"

	"mimi/internal/model"
	"mimi/internal/recurrence"
	"mimi/internal/repository"
)

const defaultExpectedMinutes = 30

// TemplateInput represents data required to create a template.
type TemplateInput struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Priority        model.Priority      `json:"priority"`
	RepeatType      recurrence.Kind     `json:"repeat_type"`
	Weekdays        recurrence.Weekdays `json:"weekdays"`
	Order           int                 `json:"order"`
	ExpectedMinutes *int                `json:"expected_minutes"`
	IsActive        *bool               `json:"is_active"`
}

// RepeatInfo describes a template's pattern for display.
type RepeatInfo struct {
	Type recurrence.Kind `json:"type"`
	Days []string        `json:"days"`
}

// TemplateService wraps template administration.
type TemplateService struct {
	store *repository.Store
	opts  Options
}

func NewTemplateService(store *repository.Store, opts Options) *TemplateService {
	return &TemplateService{store: store, opts: opts.withDefaults()}
}

func (s *TemplateService) CreateTemplate(ctx context.Context, input TemplateInput) (*model.Template, error) {
	now := s.opts.Now()
	template := model.Template{
		Title:           strings.TrimSpace(input.Title),
		Description:     strings.TrimSpace(input.Description),
		Priority:        input.Priority,
		Rule:            recurrence.Rule{Kind: input.RepeatType, Weekdays: input.Weekdays},
		Order:           input.Order,
		ExpectedMinutes: defaultExpectedMinutes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.ExpectedMinutes != nil {
		template.ExpectedMinutes = *input.ExpectedMinutes
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if err := normalizeTemplate(&template); err != nil {
		return nil, err
	}

	if err := s.store.Templates.Create(ctx, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

// ListTemplates returns templates by display order.
func (s *TemplateService) ListTemplates(ctx context.Context, activeOnly bool) ([]model.Template, error) {
	return s.store.Templates.List(ctx, activeOnly)
}

func (s *TemplateService) GetTemplate(ctx context.Context, id uint) (*model.Template, error) {
	template, err := s.store.Templates.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("template", id, err)
	}
	return template, nil
}

// UpdateTemplate applies the set fields of patch. Tasks generated earlier
// keep the values they were created with.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id uint, patch model.TemplatePatch) (*model.Template, error) {
	template, err := s.store.Templates.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("template", id, err)
	}

	patch.Apply(template)
	template.Title = strings.TrimSpace(template.Title)
	template.UpdatedAt = s.opts.Now()
	if err := normalizeTemplate(template); err != nil {
		return nil, err
	}

	if err := s.store.Templates.Save(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

// DeleteTemplate removes a template. Its generated tasks stay on record as
// ad-hoc tasks.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Templates.FindByID(ctx, id); err != nil {
			return lookupError("template", id, err)
		}
		if err := tx.Tasks.DetachTemplate(ctx, id); err != nil {
			return err
		}
		if _, err := tx.Templates.Delete(ctx, id); err != nil {
			return err
		}
		return nil
	})
}

// RepeatInfoFor builds the display pattern of template; nil for templates
// that do not recur.
func RepeatInfoFor(template *model.Template) *RepeatInfo {
	if template == nil || template.Kind == recurrence.None {
		return nil
	}
	return &RepeatInfo{Type: template.Kind, Days: template.DayNames()}
}

// normalizeTemplate fills defaults, rejects unknown values, and deactivates
// a template whose rule can never match.
func normalizeTemplate(t *model.Template) error {
	if t.Title == "" {
		return ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if t.Priority == "" {
		t.Priority = model.PriorityOptional
	}
	if !t.Priority.Valid() {
		return ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown value %q", t.Priority)}
	}
	if t.Kind == "" {
		t.Kind = recurrence.None
	}
	if !t.Kind.Valid() {
		return ValidationError{Field: "repeat_type", Reason: fmt.Sprintf("unknown value %q", t.Kind)}
	}
	if t.ExpectedMinutes < 0 {
		return ValidationError{Field: "expected_minutes", Reason: "must not be negative"}
	}
	if !t.Rule.Live() {
		t.IsActive = false
	}
	return nil
}
