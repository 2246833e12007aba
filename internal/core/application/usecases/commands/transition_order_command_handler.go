package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// TransitionObserver is told about every applied order transition.
type TransitionObserver interface {
	ObserveTransition(to string)
}

// TransitionOrderResult holds the order and, when it has one, its schedule
// entry after the move.
type TransitionOrderResult struct {
	Order *order.CustomerOrder
	Entry *schedule.Entry
}

// TransitionOrderCommandHandler applies an order transition and mirrors it
// onto the order's schedule entry. It holds the order's lock so it never
// interleaves with an assignment of the same order.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	locker     ports.ResourceLocker
	machine    services.StatusMachine
	observer   TransitionObserver
	settings   Settings
}

func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	locker ports.ResourceLocker,
	observer TransitionObserver,
	settings Settings,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		machine:    services.NewStatusMachine(),
		observer:   observer,
		settings:   settings,
	}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (TransitionOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionOrderResult{}, err
	}

	unlock, err := h.locker.Lock(ctx, "order:"+cmd.OrderID().String())
	if err != nil {
		return TransitionOrderResult{}, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return TransitionOrderResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	o, err := get(ctx, h.settings, orders, cmd.AgencyID(), "orderId", cmd.OrderID())
	if err != nil {
		return TransitionOrderResult{}, err
	}

	entries := uow.ScheduleRepository()
	own, err := collect(ctx, h.settings, entries, ports.ListOptions[*schedule.Entry]{
		Agency: cmd.AgencyID(),
		Where: func(e *schedule.Entry) bool {
			return e.Status().IsOpen() && e.OrderRef().IsEqual(o.ID())
		},
		OrderBy: compareByCreation,
	})
	if err != nil {
		return TransitionOrderResult{}, err
	}

	var entry *schedule.Entry
	if len(own) > 0 {
		entry = own[0]
	}
	var entryStatus schedule.Status
	if entry != nil {
		entryStatus = entry.Status()
	}

	meta := order.TransitionMetadata{Reason: cmd.Reason()}
	if err = h.machine.TransitionOrder(o, entry, cmd.To(), meta, h.settings.now()); err != nil {
		return TransitionOrderResult{}, err
	}

	result := TransitionOrderResult{Entry: entry}
	if result.Order, err = put(ctx, h.settings, orders, o); err != nil {
		return TransitionOrderResult{}, err
	}
	if entry != nil && entry.Status() != entryStatus {
		if result.Entry, err = put(ctx, h.settings, entries, entry); err != nil {
			return TransitionOrderResult{}, err
		}
	}

	if err = commit(ctx, uow); err != nil {
		return TransitionOrderResult{}, err
	}

	if h.observer != nil {
		h.observer.ObserveTransition(cmd.To().String())
	}
	return result, nil
}
