package services

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/pkg/errs"
)

// StatusMachine applies order transitions and keeps the order's schedule
// entry in step with them.
//
// Mirrored moves:
//   - in_progress ⇒ entry in_progress
//   - completed ⇒ entry completed
//   - canceled ⇒ entry canceled, which releases its driver and vehicle
type StatusMachine struct{}

func NewStatusMachine() StatusMachine {
	return StatusMachine{}
}

// MirroredStatus returns the entry status matching an order status, if any.
func (StatusMachine) MirroredStatus(s order.Status) (schedule.Status, bool) {
	switch s {
	case order.InProgress:
		return schedule.InProgress, true
	case order.Completed:
		return schedule.Completed, true
	case order.Canceled:
		return schedule.Canceled, true
	case order.Unknown, order.Pending, order.Confirmed:
	}
	return schedule.Unknown, false
}

// TransitionOrder moves o to the target status and mirrors the move onto
// entry. entry may be nil for orders that were never assigned.
//
// Every check runs before anything changes, so on error both aggregates are
// left as they were.
func (m StatusMachine) TransitionOrder(
	o *order.CustomerOrder,
	entry *schedule.Entry,
	to order.Status,
	meta order.TransitionMetadata,
	at time.Time,
) error {
	if err := o.Validate(); err != nil {
		return err
	}

	target, mirrored := m.MirroredStatus(to)
	mirrored = mirrored && entry != nil
	if mirrored {
		if err := entry.Validate(); err != nil {
			return err
		}
		if !entry.OrderRef().IsEqual(o.ID()) {
			return errs.NewPreconditionFailedError(
				"schedule entry",
				fmt.Errorf("entry %s belongs to order %s", entry.ID(), entry.OrderRef()),
			)
		}
		mirrored = entry.Status() != target
	}

	// The order table is checked first by o.Transition; the entry is only
	// checked when the order move itself is legal.
	if mirrored && o.Status().CanTransitionTo(to) {
		if _, err := entry.Status().TransitionTo(target); err != nil {
			return err
		}
	}

	if err := o.Transition(to, meta, at); err != nil {
		return err
	}

	if mirrored {
		return entry.Transition(target, at)
	}
	return nil
}
