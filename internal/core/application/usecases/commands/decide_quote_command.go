package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDecideQuoteCommandIsNotConstructed = errors.New(
	"DecideQuoteCommand must be created via NewDecideQuoteCommand constructor",
)

// DecideQuoteCommand approves or rejects a pending quote.
type DecideQuoteCommand struct {
	agencyID   kernel.AgencyID
	quoteID    kernel.UUID
	decision   services.Decision
	notes      string
	reviewedBy string

	guard guard.ConstructorGuard
}

func NewDecideQuoteCommand(
	agencyID kernel.AgencyID,
	quoteID kernel.UUID,
	decision services.Decision,
	notes string,
	reviewedBy string,
) (DecideQuoteCommand, error) {
	var decisionErr error
	if decision != services.DecisionApprove && decision != services.DecisionReject {
		decisionErr = errs.NewValueIsInvalidError("decision")
	}

	if err := errors.Join(agencyID.Validate(), quoteID.Validate(), decisionErr); err != nil {
		return DecideQuoteCommand{}, err
	}

	return DecideQuoteCommand{
		agencyID:   agencyID,
		quoteID:    quoteID,
		decision:   decision,
		notes:      notes,
		reviewedBy: strings.TrimSpace(reviewedBy),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c DecideQuoteCommand) Validate() error {
	return c.guard.Validate(ErrDecideQuoteCommandIsNotConstructed)
}

func (c DecideQuoteCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c DecideQuoteCommand) QuoteID() kernel.UUID {
	return c.quoteID
}

func (c DecideQuoteCommand) Decision() services.Decision {
	return c.decision
}

func (c DecideQuoteCommand) Notes() string {
	return c.notes
}

func (c DecideQuoteCommand) ReviewedBy() string {
	return c.reviewedBy
}
