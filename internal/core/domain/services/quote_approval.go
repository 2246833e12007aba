package services

import (
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/pkg/errs"
)

// Decision is the administrator's verdict on a quote.
type Decision int

const (
	DecisionUnknown Decision = iota
	DecisionApprove
	DecisionReject
)

// ParseDecision accepts the verb and the resulting status name.
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve", "approved":
		return DecisionApprove, nil
	case "reject", "rejected":
		return DecisionReject, nil
	}
	return DecisionUnknown, errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is not approve or reject", s))
}

func (d Decision) String() string {
	switch d {
	case DecisionApprove:
		return "approve"
	case DecisionReject:
		return "reject"
	case DecisionUnknown:
	}
	return "unknown"
}

func (d Decision) targetStatus() (quote.Status, error) {
	switch d {
	case DecisionApprove:
		return quote.Approved, nil
	case DecisionReject:
		return quote.Rejected, nil
	case DecisionUnknown:
	}
	return quote.Unknown, errs.NewValueIsInvalidError("decision")
}

// QuoteApproval decides pending quotes. It never creates orders.
type QuoteApproval struct{}

func NewQuoteApproval() QuoteApproval {
	return QuoteApproval{}
}

// Decide approves or rejects q. A quote that already left pending yields
// AlreadyDecidedError and is not modified.
func (QuoteApproval) Decide(q *quote.QuoteRequest, d Decision, review quote.Review, at time.Time) error {
	if err := q.Validate(); err != nil {
		return err
	}

	target, err := d.targetStatus()
	if err != nil {
		return err
	}

	if q.Status() != quote.Pending {
		return errs.NewAlreadyDecidedError(q.ID(), q.Status().String())
	}

	return q.Transition(target, review, at)
}
