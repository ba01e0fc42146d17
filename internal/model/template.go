package model

import (
	"time"

	"mimi/internal/date"
	"mimi/internal/recurrence"
)

// Template is an administrator-defined recurring chore. Generated tasks copy
// its fields at generation time and refer back to it by ID only.
type Template struct {
	ID              uint     `json:"id" gorm:"primaryKey"`
	Title           string   `json:"title" gorm:"index;not null"`
	Description     string   `json:"description"`
	Priority        Priority `json:"priority" gorm:"not null"`
	recurrence.Rule `gorm:"embedded"`
	Order           int       `json:"order" gorm:"column:sort_order"`
	ExpectedMinutes int       `json:"expected_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Template) TableName() string {
	return "task_templates"
}

// Anchor is the creation day of the template in loc; monthly rules recur on
// its day of month.
func (t Template) Anchor(loc *time.Location) date.Date {
	if loc == nil {
		loc = time.UTC
	}
	return date.Of(t.CreatedAt.In(loc))
}

// Matches reports whether the template should have an instance on d.
func (t Template) Matches(d date.Date, loc *time.Location) bool {
	return t.Rule.Matches(t.Anchor(loc), d)
}

// TemplatePatch carries the template fields a caller explicitly set.
type TemplatePatch struct {
	Title           *string              `json:"title"`
	Description     *string              `json:"description"`
	Priority        *Priority            `json:"priority"`
	RepeatType      *recurrence.Kind     `json:"repeat_type"`
	Weekdays        *recurrence.Weekdays `json:"weekdays"`
	Order           *int                 `json:"order"`
	ExpectedMinutes *int                 `json:"expected_minutes"`
	IsActive        *bool                `json:"is_active"`
}

// Apply copies every set field onto t.
func (p TemplatePatch) Apply(t *Template) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.RepeatType != nil {
		t.Kind = *p.RepeatType
	}
	if p.Weekdays != nil {
		t.Weekdays = *p.Weekdays
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.ExpectedMinutes != nil {
		t.ExpectedMinutes = *p.ExpectedMinutes
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
}
