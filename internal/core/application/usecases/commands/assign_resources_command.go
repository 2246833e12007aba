package commands

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignResourcesCommandIsNotConstructed = errors.New(
	"AssignResourcesCommand must be created via NewAssignResourcesCommand constructor",
)

// Window is the requested slot in wire form. A zero Duration uses the
// configured slot length.
type Window struct {
	Date     string
	Time     string
	Duration time.Duration
}

// AssignResourcesCommand binds a driver and a vehicle to an order for a time
// window. EntryID names the schedule entry created on a first assignment and
// is ignored when the order already has one.
type AssignResourcesCommand struct {
	agencyID  kernel.AgencyID
	orderID   kernel.UUID
	driverID  kernel.UUID
	vehicleID kernel.UUID
	window    Window
	jobType   string
	entryID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignResourcesCommand(
	agencyID kernel.AgencyID,
	orderID kernel.UUID,
	driverID kernel.UUID,
	vehicleID kernel.UUID,
	window Window,
	jobType string,
	entryID kernel.UUID,
) (AssignResourcesCommand, error) {
	var durationErr error
	if window.Duration < 0 || window.Duration > kernel.MaxSlotDuration {
		durationErr = errs.NewValueIsOutOfRangeError("duration", window.Duration, 0, kernel.MaxSlotDuration)
	}

	if err := errors.Join(
		agencyID.Validate(),
		orderID.Validate(),
		driverID.Validate(),
		vehicleID.Validate(),
		entryID.Validate(),
		durationErr,
	); err != nil {
		return AssignResourcesCommand{}, err
	}

	return AssignResourcesCommand{
		agencyID:  agencyID,
		orderID:   orderID,
		driverID:  driverID,
		vehicleID: vehicleID,
		window:    window,
		jobType:   strings.TrimSpace(jobType),
		entryID:   entryID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignResourcesCommand) Validate() error {
	return c.guard.Validate(ErrAssignResourcesCommandIsNotConstructed)
}

func (c AssignResourcesCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c AssignResourcesCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignResourcesCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c AssignResourcesCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c AssignResourcesCommand) Window() Window {
	return c.window
}

func (c AssignResourcesCommand) JobType() string {
	return c.jobType
}

func (c AssignResourcesCommand) EntryID() kernel.UUID {
	return c.entryID
}

// LockKeys are the keys held while the assignment runs.
func (c AssignResourcesCommand) LockKeys() []string {
	return []string{
		"order:" + c.orderID.String(),
		kernel.ResourceDriver.LockKey(c.driverID),
		kernel.ResourceVehicle.LockKey(c.vehicleID),
	}
}
