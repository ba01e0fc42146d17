package model

import (
	"time"

	"mimi/internal/date"
)

// Priority decides how a chore is shown: required ones must be done.
type Priority string

const (
	PriorityRequired Priority = "required"
	PriorityOptional Priority = "optional"
)

func (p Priority) Valid() bool {
	return p == PriorityRequired || p == PriorityOptional
}

// Status of a task instance.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task is a single dated chore, either ad-hoc or generated from a template.
// At most one task exists per (TemplateID, ScheduledDate).
type Task struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	TemplateID      *uint      `json:"template_id" gorm:"uniqueIndex:idx_task_template_date"`
	Title           string     `json:"title" gorm:"not null"`
	Description     string     `json:"description"`
	Priority        Priority   `json:"priority" gorm:"not null"`
	Order           int        `json:"order" gorm:"column:sort_order"`
	ExpectedMinutes int        `json:"expected_minutes"`
	ScheduledDate   date.Date  `json:"scheduled_date" gorm:"uniqueIndex:idx_task_template_date;index;not null"`
	Status          Status     `json:"status" gorm:"not null"`
	IsSnapshot      bool       `json:"is_snapshot" gorm:"default:false"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// FromTemplate reports whether the task was generated from a template.
func (t Task) FromTemplate() bool {
	return t.TemplateID != nil
}

// TaskPatch carries the task fields a caller explicitly set.
type TaskPatch struct {
	Status          *Status   `json:"status"`
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	Priority        *Priority `json:"priority"`
	Order           *int      `json:"order"`
	ExpectedMinutes *int      `json:"expected_minutes"`
}

// Apply copies every set field onto t and keeps CompletedAt in step with
// the status: completing stamps it once, reopening clears it.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.ExpectedMinutes != nil {
		t.ExpectedMinutes = *p.ExpectedMinutes
	}
	if p.Status != nil {
		t.Status = *p.Status
		switch t.Status {
		case StatusCompleted:
			if t.CompletedAt == nil {
				t.CompletedAt = &now
			}
		case StatusPending:
			t.CompletedAt = nil
		}
	}
}
