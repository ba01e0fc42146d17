// Package service holds the chore planner's business rules: template
// administration, generating task instances from templates, and the task
// edits that feed back into a template's recurrence rule.
package service

import (
	"time"

	"mimi/internal/date"
)

// Options configures the services. The zero value uses the wall clock and
// the local time zone.
type Options struct {
	// Now returns the current instant; tests pin it.
	Now func() time.Time
	// Location decides which calendar day "today" is and the day of month
	// a template was created on.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

func (o Options) today() date.Date {
	return date.Today(o.Now(), o.Location)
}
