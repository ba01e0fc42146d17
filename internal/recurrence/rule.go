// Package recurrence decides on which calendar days a chore template applies
// and how its rule changes when a single occurrence is deleted or moved.
package recurrence

import (
	"time"

	"mimi/internal/date"
)

// Kind is the recurrence policy of a template.
type Kind string

const (
	None    Kind = "none"
	Daily   Kind = "daily"   // every workday, Mon-Fri
	Weekly  Kind = "weekly"  // the days in Rule.Weekdays
	Monthly Kind = "monthly" // the anchor day of every month
)

// Valid reports whether k is a known recurrence kind.
func (k Kind) Valid() bool {
	switch k {
	case None, Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Rule is the recurrence pattern embedded in a template.
type Rule struct {
	Kind     Kind     `json:"repeat_type" gorm:"column:repeat_type;not null"`
	Weekdays Weekdays `json:"weekdays" gorm:"column:weekdays;not null"`
}

// Matches reports whether the rule applies on d. anchor is the template's
// creation day and is only consulted by monthly rules.
//
// A monthly anchor past the end of a shorter month falls on that month's
// last day, so an anchor of 31 matches Feb 28 (or 29) and Apr 30.
func (r Rule) Matches(anchor, d date.Date) bool {
	switch r.Kind {
	case Daily:
		return d.Weekday() < 5
	case Weekly:
		return r.Weekdays.Has(d.Weekday())
	case Monthly:
		due := anchor.Day()
		if last := daysInMonth(d.Month(), d.Year()); due > last {
			due = last
		}
		return d.Day() == due
	default:
		return false
	}
}

// Live reports whether the rule can still match some day. A weekly rule
// with no weekdays cannot, and a template holding one must be inactive.
func (r Rule) Live() bool {
	return r.Kind != Weekly || !r.Weekdays.Empty()
}

// Drop returns the rule with weekday removed from its pattern. A daily rule
// becomes weekly on the remaining workdays. Monthly and none rules are
// returned unchanged.
func (r Rule) Drop(weekday int) Rule {
	switch r.Kind {
	case Weekly:
		return Rule{Kind: Weekly, Weekdays: r.Weekdays.Without(weekday)}
	case Daily:
		return Rule{Kind: Weekly, Weekdays: Workdays.Without(weekday)}
	default:
		return r
	}
}

// Shift returns the rule with the occurrence on weekday from moved to
// weekday to. A daily rule becomes weekly unless from == to; shifting a
// daily rule onto a weekend day extends it past Mon-Fri. Monthly and none
// rules are returned unchanged.
func (r Rule) Shift(from, to int) Rule {
	switch r.Kind {
	case Weekly:
		return Rule{Kind: Weekly, Weekdays: r.Weekdays.Without(from).With(to)}
	case Daily:
		if from == to {
			return r
		}
		return Rule{Kind: Weekly, Weekdays: Workdays.Without(from).With(to)}
	default:
		return r
	}
}

// DayNames lists the short names of the weekdays the rule recurs on. It is
// nil for monthly and none rules.
func (r Rule) DayNames() []string {
	var set Weekdays
	switch r.Kind {
	case Daily:
		set = Workdays
	case Weekly:
		set = r.Weekdays
	default:
		return nil
	}
	names := []string{}
	for _, d := range set.Days() {
		names = append(names, DayNames[d])
	}
	return names
}

func daysInMonth(month time.Month, year int) int {
	// Move to next month, roll back a day.
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
