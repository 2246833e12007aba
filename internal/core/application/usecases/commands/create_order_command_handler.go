package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	settings   Settings
}

func NewCreateOrderCommandHandler(uowFactory UoWFactory, settings Settings) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.CustomerOrder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewCustomerOrder(cmd.OrderID(), cmd.AgencyID(), cmd.Details(), h.settings.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, err := put(ctx, h.settings, uow.OrderRepository(), o)
	if err != nil {
		return nil, err
	}

	if err = commit(ctx, uow); err != nil {
		return nil, err
	}
	return stored, nil
}
