package budgets

import (
	"fmt"

	"github.com/ensayelab/ensayelab/internal/shared"
)

// Status is the budget lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// transitions lists the states reachable from each state. rejected and
// completed are terminal.
var transitions = map[Status][]Status{
	StatusDraft:    {StatusPending},
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusActive},
	StatusActive:   {StatusCompleted},
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusActive, StatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", shared.ErrValidation, raw)
}

// Transition returns the new state, or ErrInvalidTransition when the
// requested state is not reachable from the current one.
func Transition(current, requested Status) (Status, error) {
	for _, next := range transitions[current] {
		if next == requested {
			return requested, nil
		}
	}
	return "", fmt.Errorf("%w: %s -> %s", shared.ErrInvalidTransition, current, requested)
}

// Mutable reports whether line items may still change. Once a budget leaves
// draft/pending the quoted content is frozen; re-quoting means a new budget,
// which keeps the approved document auditable.
func (s Status) Mutable() bool {
	return s == StatusDraft || s == StatusPending
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
