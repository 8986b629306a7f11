package domain

import (
	"errors"
	"fmt"
)

// ErrNoRoute is returned when the search exhausts every reachable state without
// the goal action becoming applicable.
var ErrNoRoute = errors.New("no route to goal")

// ErrBudgetExhausted is returned when a search hits its node or depth budget
// before it could prove a cheapest route or the absence of one.
var ErrBudgetExhausted = errors.New("search budget exhausted")

// ErrActionNotFound is the sentinel wrapped by MissingActionError.
var ErrActionNotFound = errors.New("action not found")

// ErrStepLimit is returned when an execution loop commits its maximum number of
// steps without executing the goal action.
var ErrStepLimit = errors.New("step limit reached")

// MissingActionError reports a route step that names no registered action.
// It indicates a programming defect (the action set changed mid-run).
type MissingActionError struct {
	Name string
}

func (e *MissingActionError) Error() string {
	return fmt.Sprintf("route references unregistered action '%s'", e.Name)
}

func (e *MissingActionError) Unwrap() error {
	return ErrActionNotFound
}
