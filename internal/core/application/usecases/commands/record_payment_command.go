package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// RecordPaymentCommand updates the payment bookkeeping of an order. No money
// moves.
type RecordPaymentCommand struct {
	agencyID kernel.AgencyID
	orderID  kernel.UUID
	status   order.PaymentStatus

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(
	agencyID kernel.AgencyID,
	orderID kernel.UUID,
	status order.PaymentStatus,
) (RecordPaymentCommand, error) {
	if err := errors.Join(agencyID.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return RecordPaymentCommand{}, err
	}

	return RecordPaymentCommand{
		agencyID: agencyID,
		orderID:  orderID,
		status:   status,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c RecordPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordPaymentCommand) Status() order.PaymentStatus {
	return c.status
}
