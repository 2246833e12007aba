package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrSubmitQuoteCommandIsNotConstructed = errors.New(
	"SubmitQuoteCommand must be created via NewSubmitQuoteCommand constructor",
)

// QuoteRequestData is what a customer submits.
type QuoteRequestData struct {
	Customer      kernel.Contact
	Pickup        kernel.Address
	Delivery      kernel.Address
	PreferredDate time.Time
	BasePrice     decimal.Decimal
	Breakdown     quote.PriceBreakdown
	// DeclaredTotal is the total the client computed, if it sent one. It
	// must match basePrice plus the surcharges.
	DeclaredTotal *decimal.Decimal
}

// SubmitQuoteCommand registers a new pending quote request.
//
// Example:
//
//	cmd, err := NewSubmitQuoteCommand(kernel.NewUUID(), "agency-1", QuoteRequestData{...})
//	q, err := handler.Handle(ctx, cmd)
type SubmitQuoteCommand struct {
	quoteID  kernel.UUID
	agencyID kernel.AgencyID
	data     QuoteRequestData

	guard guard.ConstructorGuard
}

func NewSubmitQuoteCommand(quoteID kernel.UUID, agencyID kernel.AgencyID, data QuoteRequestData) (SubmitQuoteCommand, error) {
	if err := errors.Join(quoteID.Validate(), agencyID.Validate()); err != nil {
		return SubmitQuoteCommand{}, err
	}

	data.Breakdown = data.Breakdown.Clone()
	return SubmitQuoteCommand{
		quoteID:  quoteID,
		agencyID: agencyID,
		data:     data,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitQuoteCommand) Validate() error {
	return c.guard.Validate(ErrSubmitQuoteCommandIsNotConstructed)
}

func (c SubmitQuoteCommand) QuoteID() kernel.UUID {
	return c.quoteID
}

func (c SubmitQuoteCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c SubmitQuoteCommand) Data() QuoteRequestData {
	return c.data
}
