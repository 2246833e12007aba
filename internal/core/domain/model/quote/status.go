package quote

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the decision state of a quote request.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending quotes wait for an administrator decision.
	Pending

	// Approved quotes may be turned into a customer order.
	Approved

	// Rejected quotes are final.
	Rejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "unknown",
		Pending:  "pending",
		Approved: "approved",
		Rejected: "rejected",
	}
}

// transitions is the adjacency table of the quote state machine.
func transitions() map[Status]map[Status]struct{} {
	//nolint:exhaustive // statuses without outgoing edges are terminal
	return map[Status]map[Status]struct{}{
		Pending: {Approved: {}, Rejected: {}},
	}
}

// ParseStatus maps the persisted/wire name onto a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("quote status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("quote status", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("quote status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions()[s]) == 0
}

// CanTransitionTo reports whether s → to is in the transition table.
func (s Status) CanTransitionTo(to Status) bool {
	_, ok := transitions()[s][to]
	return ok
}

// TransitionTo returns to when the move is allowed and an
// IllegalTransitionError otherwise.
func (s Status) TransitionTo(to Status) (Status, error) {
	if !s.CanTransitionTo(to) {
		return s, errs.NewIllegalTransitionError("quote", s.String(), to.String())
	}
	return to, nil
}
