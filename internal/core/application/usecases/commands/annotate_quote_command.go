package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAnnotateQuoteCommandIsNotConstructed = errors.New(
	"AnnotateQuoteCommand must be created via NewAnnotateQuoteCommand constructor",
)

// AnnotateQuoteCommand replaces the admin notes of a quote. Notes stay
// editable after the decision.
type AnnotateQuoteCommand struct {
	agencyID kernel.AgencyID
	quoteID  kernel.UUID
	notes    string

	guard guard.ConstructorGuard
}

func NewAnnotateQuoteCommand(agencyID kernel.AgencyID, quoteID kernel.UUID, notes string) (AnnotateQuoteCommand, error) {
	if err := errors.Join(agencyID.Validate(), quoteID.Validate()); err != nil {
		return AnnotateQuoteCommand{}, err
	}

	return AnnotateQuoteCommand{
		agencyID: agencyID,
		quoteID:  quoteID,
		notes:    notes,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AnnotateQuoteCommand) Validate() error {
	return c.guard.Validate(ErrAnnotateQuoteCommandIsNotConstructed)
}

func (c AnnotateQuoteCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c AnnotateQuoteCommand) QuoteID() kernel.UUID {
	return c.quoteID
}

func (c AnnotateQuoteCommand) Notes() string {
	return c.notes
}
