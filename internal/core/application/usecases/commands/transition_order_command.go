package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand moves an order to another status. Reason is kept
// only when the order is canceled.
type TransitionOrderCommand struct {
	agencyID kernel.AgencyID
	orderID  kernel.UUID
	to       order.Status
	reason   string

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	agencyID kernel.AgencyID,
	orderID kernel.UUID,
	to order.Status,
	reason string,
) (TransitionOrderCommand, error) {
	if err := errors.Join(agencyID.Validate(), orderID.Validate(), to.Validate()); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		agencyID: agencyID,
		orderID:  orderID,
		to:       to,
		reason:   reason,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) To() order.Status {
	return c.to
}

func (c TransitionOrderCommand) Reason() string {
	return c.reason
}
