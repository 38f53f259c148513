package model

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every ValidationError through errors.Is.
var ErrValidation = errors.New("invalid problem")

// ValidationError reports malformed or inconsistent input found while building a Problem.
type ValidationError struct {
	Entity string // e.g. "lesson", "teacher"
	Id     uint64
	Reason string
}

func (err ValidationError) Error() string {
	if err.Entity == "" {
		return fmt.Sprintf("%v: %v", ErrValidation, err.Reason)
	}
	return fmt.Sprintf("%v: %v %d: %v", ErrValidation, err.Entity, err.Id, err.Reason)
}

func (err ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(entity string, id uint64, format string, args ...any) error {
	return ValidationError{Entity: entity, Id: id, Reason: fmt.Sprintf(format, args...)}
}
