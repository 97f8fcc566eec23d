// Package order holds the order engine's pure core: the status state
// machine, price and points arithmetic and order-number generation.
// Persistence stays in the repository layer; handlers orchestrate the
// two inside a database transaction.
package order

import "fmt"

// Status is an order lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// transitions is the full lifecycle table. COMPLETED and CANCELLED are
// terminal. Any pair not listed here is rejected.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// TransitionError reports a rejected status transition, carrying the
// attempted source and target so handlers can surface both.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from -> to is in the lifecycle table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a *TransitionError when from -> to is not
// allowed, and nil otherwise.
func ValidateTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// Cancellable reports whether a customer may still cancel an order in
// the given state. Only PENDING and CONFIRMED orders qualify; anything
// later is already being prepared or finished.
func Cancellable(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether the state accepts no further transitions.
func Terminal(s Status) bool {
	return len(transitions[s]) == 0 && ValidStatus(s)
}
