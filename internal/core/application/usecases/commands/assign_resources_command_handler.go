package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/observability"
	"dispatch/internal/pkg/errs"
)

// AssignmentObserver receives the outcome of every assignment attempt.
type AssignmentObserver interface {
	ObserveAssignment(outcome string, took time.Duration)
}

// AssignResourcesResult is the state after a successful assignment.
type AssignResourcesResult struct {
	Order   *order.CustomerOrder
	Entry   *schedule.Entry
	Created bool
}

// AssignResourcesCommandHandler runs the assignment engine inside a critical
// section keyed by the order, the driver and the vehicle. The order and its
// schedule entry are written in one unit of work.
//
// Errors:
//   - errs.ErrObjectNotFound for an unknown order, driver or vehicle
//   - errs.ErrPreconditionFailed when the order or its entry can no longer be
//     assigned
//   - errs.ErrResourceUnavailable when either resource is taken
//   - errs.ErrStoreUnavailable when the store keeps failing
type AssignResourcesCommandHandler struct {
	uowFactory UoWFactory
	locker     ports.ResourceLocker
	engine     services.AssignmentEngine
	observer   AssignmentObserver
	settings   Settings
}

func NewAssignResourcesCommandHandler(
	uowFactory UoWFactory,
	locker ports.ResourceLocker,
	observer AssignmentObserver,
	settings Settings,
) AssignResourcesCommandHandler {
	return AssignResourcesCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		engine:     services.NewAssignmentEngine(services.NewAvailabilityCalculator()),
		observer:   observer,
		settings:   settings,
	}
}

func (h AssignResourcesCommandHandler) Handle(ctx context.Context, cmd AssignResourcesCommand) (AssignResourcesResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignResourcesResult{}, err
	}

	window := cmd.Window()
	duration := window.Duration
	if duration == 0 {
		duration = h.settings.slotDuration()
	}
	slot, err := kernel.NewSlot(window.Date, window.Time, duration, h.settings.location())
	if err != nil {
		return AssignResourcesResult{}, err
	}

	started := time.Now()
	result, err := h.assign(ctx, cmd, slot)
	h.observe(result, err, time.Since(started))

	return result, err
}

func (h AssignResourcesCommandHandler) assign(
	ctx context.Context,
	cmd AssignResourcesCommand,
	slot kernel.Slot,
) (AssignResourcesResult, error) {
	unlock, err := h.locker.Lock(ctx, cmd.LockKeys()...)
	if err != nil {
		return AssignResourcesResult{}, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return AssignResourcesResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agency := cmd.AgencyID()
	orders := uow.OrderRepository()
	o, err := get(ctx, h.settings, orders, agency, "orderId", cmd.OrderID())
	if err != nil {
		return AssignResourcesResult{}, err
	}
	d, err := get(ctx, h.settings, uow.DriverRepository(), agency, "driverId", cmd.DriverID())
	if err != nil {
		return AssignResourcesResult{}, err
	}
	v, err := get(ctx, h.settings, uow.VehicleRepository(), agency, "vehicleId", cmd.VehicleID())
	if err != nil {
		return AssignResourcesResult{}, err
	}

	entries := uow.ScheduleRepository()
	open, err := collect(ctx, h.settings, entries, ports.ListOptions[*schedule.Entry]{
		Agency: agency,
		Where: func(e *schedule.Entry) bool {
			if !e.Status().IsOpen() {
				return false
			}
			return e.OrderRef().IsEqual(o.ID()) ||
				e.Binds(kernel.ResourceDriver, d.ID()) ||
				e.Binds(kernel.ResourceVehicle, v.ID())
		},
		OrderBy: compareByCreation,
	})
	if err != nil {
		return AssignResourcesResult{}, err
	}

	var current *schedule.Entry
	for _, e := range open {
		if e.OrderRef().IsEqual(o.ID()) {
			current = e
			break
		}
	}

	now := h.settings.now()
	assigned, err := h.engine.Assign(services.Assignment{
		Order:      o,
		Driver:     d,
		Vehicle:    v,
		Slot:       slot,
		JobType:    cmd.JobType(),
		Current:    current,
		Schedule:   open,
		NewEntryID: cmd.EntryID(),
		At:         now,
	})
	if err != nil {
		return AssignResourcesResult{}, err
	}

	storedOrder, err := put(ctx, h.settings, orders, o)
	if err != nil {
		return AssignResourcesResult{}, err
	}
	storedEntry, err := put(ctx, h.settings, entries, assigned.Entry)
	if err != nil {
		return AssignResourcesResult{}, err
	}

	if err = commit(ctx, uow); err != nil {
		return AssignResourcesResult{}, err
	}

	return AssignResourcesResult{
		Order:   storedOrder,
		Entry:   storedEntry,
		Created: assigned.Created,
	}, nil
}

func (h AssignResourcesCommandHandler) observe(result AssignResourcesResult, err error, took time.Duration) {
	if h.observer == nil {
		return
	}
	h.observer.ObserveAssignment(assignmentOutcome(result, err), took)
}

func assignmentOutcome(result AssignResourcesResult, err error) string {
	switch {
	case err == nil && result.Created:
		return observability.OutcomeAssigned
	case err == nil:
		return observability.OutcomeRescheduled
	case errors.Is(err, errs.ErrResourceUnavailable):
		return observability.OutcomeConflict
	case errs.IsValidation(err),
		errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrPreconditionFailed):
		return observability.OutcomeRejected
	}
	return observability.OutcomeFailed
}

func compareByCreation(a, b *schedule.Entry) int {
	if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
		return c
	}
	return a.ID().Compare(b.ID())
}
