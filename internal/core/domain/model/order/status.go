package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a customer order.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of every order.
	Pending

	// Confirmed orders are accepted by the agency and wait for their service date.
	Confirmed

	// InProgress orders are being executed by the assigned crew.
	InProgress

	// Completed orders were delivered. Terminal.
	Completed

	// Canceled orders were abandoned. Terminal.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Confirmed:  "confirmed",
		InProgress: "in_progress",
		Completed:  "completed",
		Canceled:   "canceled",
	}
}

// transitions is the adjacency table of the order state machine.
func transitions() map[Status]map[Status]struct{} {
	//nolint:exhaustive // terminal statuses have no outgoing edges
	return map[Status]map[Status]struct{}{
		Pending:    {Confirmed: {}, Canceled: {}},
		Confirmed:  {InProgress: {}, Canceled: {}},
		InProgress: {Completed: {}, Canceled: {}},
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("order status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("order status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) IsTerminal() bool {
	return len(transitions()[s]) == 0
}

// IsAssignable reports whether resources may be (re)assigned in this status.
func (s Status) IsAssignable() bool {
	return s == Pending || s == Confirmed
}

func (s Status) CanTransitionTo(to Status) bool {
	_, ok := transitions()[s][to]
	return ok
}

// TransitionTo returns to when s → to is in the table and an
// IllegalTransitionError otherwise.
func (s Status) TransitionTo(to Status) (Status, error) {
	if !s.CanTransitionTo(to) {
		return s, errs.NewIllegalTransitionError("order", s.String(), to.String())
	}
	return to, nil
}
