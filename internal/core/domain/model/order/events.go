package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	StatusChangedEventName     = "order.status_changed"
	ResourcesAssignedEventName = "order.resources_assigned"
)

// StatusChangedEvent is raised on every accepted lifecycle transition.
type StatusChangedEvent struct {
	OrderID     kernel.UUID     `json:"-"`
	OrderNumber string          `json:"orderId"`
	AgencyID    kernel.AgencyID `json:"agencyId"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Reason      string          `json:"reason,omitempty"`
	At          time.Time       `json:"at"`
}

func (e StatusChangedEvent) EventName() string {
	return StatusChangedEventName
}

func (e StatusChangedEvent) AggregateID() kernel.UUID {
	return e.OrderID
}

func (e StatusChangedEvent) OccurredAt() time.Time {
	return e.At
}

// ResourcesAssignedEvent is raised when a driver and a vehicle are bound to the order.
type ResourcesAssignedEvent struct {
	OrderID     kernel.UUID     `json:"-"`
	OrderNumber string          `json:"orderId"`
	AgencyID    kernel.AgencyID `json:"agencyId"`
	DriverID    string          `json:"driverId"`
	VehicleID   string          `json:"vehicleId"`
	At          time.Time       `json:"at"`
}

func (e ResourcesAssignedEvent) EventName() string {
	return ResourcesAssignedEventName
}

func (e ResourcesAssignedEvent) AggregateID() kernel.UUID {
	return e.OrderID
}

func (e ResourcesAssignedEvent) OccurredAt() time.Time {
	return e.At
}
