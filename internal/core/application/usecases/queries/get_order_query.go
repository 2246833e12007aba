package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

type GetOrderQuery struct {
	agencyID kernel.AgencyID
	orderID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(agencyID kernel.AgencyID, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(agencyID.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		agencyID: agencyID,
		orderID:  orderID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse is an order with its latest schedule entry. Entry is
// nil for orders that were never assigned.
type GetOrderQueryResponse struct {
	Order *order.CustomerOrder
	Entry *schedule.Entry
}

type GetOrderQueryHandler struct {
	readers ReaderFactory
}

func NewGetOrderQueryHandler(readers ReaderFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{readers: readers}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	r := h.readers.Create()
	o, err := getOwned(ctx, r.OrderRepository(), query.agencyID, "orderId", query.orderID)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	entries, err := collect(ctx, r.ScheduleRepository(), ports.ListOptions[*schedule.Entry]{
		Agency: query.agencyID,
		Where: func(e *schedule.Entry) bool {
			return e.OrderRef().IsEqual(o.ID())
		},
		OrderBy: func(a, b *schedule.Entry) int {
			return b.UpdatedAt().Compare(a.UpdatedAt())
		},
	})
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{Order: o}
	if len(entries) > 0 {
		resp.Entry = entries[0]
	}
	return resp, nil
}
