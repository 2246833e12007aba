package services

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/pkg/errs"
)

// Assignment is one request to bind resources to an order.
type Assignment struct {
	Order   *order.CustomerOrder
	Driver  *driver.Driver
	Vehicle *vehicle.Vehicle
	Slot    kernel.Slot
	JobType string

	// Current is the order's schedule entry, nil when the order was never
	// assigned. It is released before conflicts are checked.
	Current *schedule.Entry

	// Schedule holds the open entries of both resources. Entries of other
	// resources are ignored.
	Schedule []*schedule.Entry

	// NewEntryID identifies the entry created on a first assignment.
	NewEntryID kernel.UUID
	At         time.Time
}

// AssignmentResult reports what the engine changed.
type AssignmentResult struct {
	Entry   *schedule.Entry
	Created bool
}

// AssignmentEngine binds a driver and a vehicle to an order for a time window
// without double-booking either of them.
//
// Checks, in order:
//   - driver and vehicle belong to the order's agency (ObjectNotFoundError)
//   - the order is pending or confirmed (PreconditionFailedError)
//   - the current entry, if any, is planned or delayed (PreconditionFailedError)
//   - neither resource is busy or unavailable at the window start, and
//     neither has a planned, delayed or in-progress entry overlapping the
//     window, whatever day it started on (ResourceUnavailableError)
//
// On success the order holds the new driver and vehicle and the entry is
// created or rescheduled as planned. The engine does not persist anything.
//
// Example usage:
//
//	engine := services.NewAssignmentEngine(services.NewAvailabilityCalculator())
//	result, err := engine.Assign(services.Assignment{
//	    Order:      o,
//	    Driver:     d,
//	    Vehicle:    v,
//	    Slot:       slot,
//	    Current:    current,
//	    Schedule:   entries,
//	    NewEntryID: kernel.NewUUID(),
//	    At:         now,
//	})
type AssignmentEngine struct {
	availability AvailabilityCalculator
}

func NewAssignmentEngine(availability AvailabilityCalculator) AssignmentEngine {
	return AssignmentEngine{availability: availability}
}

// Assign runs every check before mutating anything, so a failed assignment
// leaves all aggregates untouched.
func (e AssignmentEngine) Assign(a Assignment) (AssignmentResult, error) {
	if err := errors.Join(
		a.Order.Validate(),
		a.Driver.Validate(),
		a.Vehicle.Validate(),
		a.Slot.Validate(),
	); err != nil {
		return AssignmentResult{}, err
	}

	if err := e.checkAgency(a); err != nil {
		return AssignmentResult{}, err
	}

	if err := e.checkOrder(a); err != nil {
		return AssignmentResult{}, err
	}

	others := e.releaseCurrent(a)

	if err := e.checkResource(a.Driver, others, a.Slot); err != nil {
		return AssignmentResult{}, err
	}
	if err := e.checkResource(a.Vehicle, others, a.Slot); err != nil {
		return AssignmentResult{}, err
	}

	return e.apply(a)
}

func (e AssignmentEngine) checkAgency(a Assignment) error {
	agency := a.Order.AgencyID()
	if a.Driver.AgencyID() != agency {
		return errs.NewObjectNotFoundError("driverId", a.Driver.ID())
	}
	if a.Vehicle.AgencyID() != agency {
		return errs.NewObjectNotFoundError("vehicleId", a.Vehicle.ID())
	}
	return nil
}

func (e AssignmentEngine) checkOrder(a Assignment) error {
	if !a.Order.Status().IsAssignable() {
		return errs.NewPreconditionFailedError(
			"order status",
			fmt.Errorf("order %s is %s", a.Order.Number(), a.Order.Status()),
		)
	}

	if a.Current == nil {
		return a.NewEntryID.Validate()
	}
	if err := a.Current.Validate(); err != nil {
		return err
	}
	if !a.Current.OrderRef().IsEqual(a.Order.ID()) {
		return errs.NewPreconditionFailedError(
			"schedule entry",
			fmt.Errorf("entry %s belongs to order %s", a.Current.ID(), a.Current.OrderRef()),
		)
	}
	if !a.Current.Status().IsReschedulable() {
		return errs.NewPreconditionFailedError(
			"schedule entry status",
			fmt.Errorf("entry %s is %s", a.Current.ID(), a.Current.Status()),
		)
	}
	return nil
}

// releaseCurrent drops the order's own entry so it never conflicts with itself.
func (e AssignmentEngine) releaseCurrent(a Assignment) []*schedule.Entry {
	others := make([]*schedule.Entry, 0, len(a.Schedule))
	for _, entry := range a.Schedule {
		if entry == nil {
			continue
		}
		if a.Current != nil && entry.ID().IsEqual(a.Current.ID()) {
			continue
		}
		if entry.OrderRef().IsEqual(a.Order.ID()) {
			continue
		}
		others = append(others, entry)
	}
	return others
}

func (e AssignmentEngine) checkResource(r Resource, others []*schedule.Entry, slot kernel.Slot) error {
	report := e.availability.Calculate(r, others, slot.Start())
	if report.Availability.Blocks() {
		return errs.NewResourceUnavailableError(
			r.Kind().String(),
			r.ID(),
			fmt.Errorf("%s at %s", report.Availability, slot.Start().Format(time.RFC3339)),
		)
	}

	// Commitments only reach back to the day of the slot; an entry started
	// the evening before can still run into it.
	for _, entry := range others {
		conflict, err := entry.Conflicts(r.Kind(), r.ID(), slot)
		if err != nil {
			return err
		}
		if conflict {
			return errs.NewResourceUnavailableError(
				r.Kind().String(),
				r.ID(),
				fmt.Errorf("already booked %s for order %s", entry.Slot(), entry.OrderRef()),
			)
		}
	}
	return nil
}

func (e AssignmentEngine) apply(a Assignment) (AssignmentResult, error) {
	binding := schedule.Binding{
		Slot:      a.Slot,
		DriverID:  a.Driver.ID(),
		VehicleID: a.Vehicle.ID(),
	}

	result := AssignmentResult{Entry: a.Current}
	if a.Current == nil {
		entry, err := schedule.NewEntry(
			a.NewEntryID,
			a.Order.AgencyID(),
			a.Order.ID(),
			binding,
			schedule.Job{
				Type:     a.JobType,
				Pickup:   a.Order.PickupAddress(),
				Delivery: a.Order.DeliveryAddress(),
			},
			a.At,
		)
		if err != nil {
			return AssignmentResult{}, err
		}
		result = AssignmentResult{Entry: entry, Created: true}
	}

	if err := a.Order.AssignResources(a.Driver.ID(), a.Vehicle.ID(), a.At); err != nil {
		return AssignmentResult{}, err
	}

	if !result.Created {
		if err := result.Entry.Reschedule(binding, a.At); err != nil {
			return AssignmentResult{}, err
		}
	}

	return result, nil
}
