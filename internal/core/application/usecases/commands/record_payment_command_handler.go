package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

type RecordPaymentCommandHandler struct {
	uowFactory UoWFactory
	settings   Settings
}

func NewRecordPaymentCommandHandler(uowFactory UoWFactory, settings Settings) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*order.CustomerOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	o, err := get(ctx, h.settings, orders, cmd.AgencyID(), "orderId", cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.RecordPayment(cmd.Status(), h.settings.now()); err != nil {
		return nil, err
	}

	stored, err := put(ctx, h.settings, orders, o)
	if err != nil {
		return nil, err
	}

	if err = commit(ctx, uow); err != nil {
		return nil, err
	}
	return stored, nil
}
