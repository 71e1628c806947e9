package shared

import "errors"

var (
	// ErrValidation indicates bad input shape or range.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a missing record or catalog reference.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidTransition indicates an illegal budget status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrImmutableBudget occurs when mutating a finalized budget.
	ErrImmutableBudget = errors.New("budget is immutable")
	// ErrConcurrentModification occurs when a status transition loses the compare-and-swap race.
	ErrConcurrentModification = errors.New("concurrent modification")
)
