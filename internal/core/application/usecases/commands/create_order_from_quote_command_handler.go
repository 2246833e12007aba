package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CreateOrderFromQuoteCommandHandler creates the order of an approved quote.
//
// Errors:
//   - errs.ErrObjectNotFound for an unknown quote
//   - errs.ErrPreconditionFailed when the quote is not approved or already
//     has an order
type CreateOrderFromQuoteCommandHandler struct {
	uowFactory UoWFactory
	settings   Settings
}

func NewCreateOrderFromQuoteCommandHandler(uowFactory UoWFactory, settings Settings) CreateOrderFromQuoteCommandHandler {
	return CreateOrderFromQuoteCommandHandler{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

func (h CreateOrderFromQuoteCommandHandler) Handle(
	ctx context.Context,
	cmd CreateOrderFromQuoteCommand,
) (*order.CustomerOrder, error) {
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

	q, err := get(ctx, h.settings, uow.QuoteRepository(), cmd.AgencyID(), "quoteId", cmd.QuoteID())
	if err != nil {
		return nil, err
	}
	if q.Status() != quote.Approved {
		return nil, errs.NewPreconditionFailedError(
			"quote",
			fmt.Errorf("quote %s is %s, want %s", q.ID(), q.Status(), quote.Approved),
		)
	}

	orders := uow.OrderRepository()
	existing, err := collect(ctx, h.settings, orders, ports.ListOptions[*order.CustomerOrder]{
		Agency: cmd.AgencyID(),
		Where: func(o *order.CustomerOrder) bool {
			return o.QuoteRef() != nil && o.QuoteRef().IsEqual(q.ID())
		},
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errs.NewPreconditionFailedError(
			"quote",
			fmt.Errorf("quote %s already has order %s", q.ID(), existing[0].Number()),
		)
	}

	terms := cmd.Terms()
	serviceDate := terms.ServiceDate
	if serviceDate.IsZero() {
		serviceDate = q.PreferredDate()
	}

	quoteRef := q.ID()
	o, err := order.NewCustomerOrder(cmd.OrderID(), cmd.AgencyID(), order.Details{
		QuoteRef:     &quoteRef,
		Customer:     q.Customer(),
		Pickup:       q.PickupAddress(),
		Delivery:     q.DeliveryAddress(),
		Package:      terms.Package,
		TotalPrice:   q.TotalPrice(),
		ServiceDate:  serviceDate,
		DeliveryTime: terms.DeliveryTime,
		Instructions: terms.Instructions,
	}, h.settings.now())
	if err != nil {
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
