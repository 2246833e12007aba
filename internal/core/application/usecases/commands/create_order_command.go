package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places an order directly, without a quote.
type CreateOrderCommand struct {
	orderID  kernel.UUID
	agencyID kernel.AgencyID
	details  order.Details

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(orderID kernel.UUID, agencyID kernel.AgencyID, details order.Details) (CreateOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), agencyID.Validate()); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:  orderID,
		agencyID: agencyID,
		details:  details,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c CreateOrderCommand) Details() order.Details {
	return c.details
}
