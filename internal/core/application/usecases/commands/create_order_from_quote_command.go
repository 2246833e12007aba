package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderFromQuoteCommandIsNotConstructed = errors.New(
	"CreateOrderFromQuoteCommand must be created via NewCreateOrderFromQuoteCommand constructor",
)

// OrderTerms completes an approved quote into an order. A zero ServiceDate
// falls back to the quote's preferred date.
type OrderTerms struct {
	Package      order.Package
	ServiceDate  time.Time
	DeliveryTime string
	Instructions string
}

// CreateOrderFromQuoteCommand turns an approved quote into a pending order.
// The order copies the customer, the addresses and the total of the quote.
type CreateOrderFromQuoteCommand struct {
	orderID  kernel.UUID
	agencyID kernel.AgencyID
	quoteID  kernel.UUID
	terms    OrderTerms

	guard guard.ConstructorGuard
}

func NewCreateOrderFromQuoteCommand(
	orderID kernel.UUID,
	agencyID kernel.AgencyID,
	quoteID kernel.UUID,
	terms OrderTerms,
) (CreateOrderFromQuoteCommand, error) {
	if err := errors.Join(orderID.Validate(), agencyID.Validate(), quoteID.Validate()); err != nil {
		return CreateOrderFromQuoteCommand{}, err
	}

	return CreateOrderFromQuoteCommand{
		orderID:  orderID,
		agencyID: agencyID,
		quoteID:  quoteID,
		terms:    terms,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderFromQuoteCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderFromQuoteCommandIsNotConstructed)
}

func (c CreateOrderFromQuoteCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderFromQuoteCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c CreateOrderFromQuoteCommand) QuoteID() kernel.UUID {
	return c.quoteID
}

func (c CreateOrderFromQuoteCommand) Terms() OrderTerms {
	return c.terms
}
