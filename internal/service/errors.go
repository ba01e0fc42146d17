package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound reports that a referenced template or task does not exist.
// Operations returning it have changed nothing.
var ErrNotFound = errors.New("not found")

// ValidationError rejects input that cannot be stored as given.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// lookupError maps a repository miss onto ErrNotFound and wraps anything
// else as a storage failure.
func lookupError(kind string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("find %s %d: %w", kind, id, err)
}
