package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/pkg/guard"
)

var ErrChangeVehicleStatusCommandIsNotConstructed = errors.New(
	"ChangeVehicleStatusCommand must be created via NewChangeVehicleStatusCommand constructor",
)

// ChangeVehicleStatusCommand sends a vehicle to maintenance or back. Plan,
// when set, replaces the maintenance dates.
type ChangeVehicleStatusCommand struct {
	agencyID  kernel.AgencyID
	vehicleID kernel.UUID
	status    vehicle.Status
	plan      *vehicle.MaintenancePlan

	guard guard.ConstructorGuard
}

func NewChangeVehicleStatusCommand(
	agencyID kernel.AgencyID,
	vehicleID kernel.UUID,
	status vehicle.Status,
	plan *vehicle.MaintenancePlan,
) (ChangeVehicleStatusCommand, error) {
	if err := errors.Join(agencyID.Validate(), vehicleID.Validate(), status.Validate()); err != nil {
		return ChangeVehicleStatusCommand{}, err
	}

	cmd := ChangeVehicleStatusCommand{
		agencyID:  agencyID,
		vehicleID: vehicleID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}
	if plan != nil {
		p := clonePlan(*plan)
		cmd.plan = &p
	}
	return cmd, nil
}

func (c ChangeVehicleStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeVehicleStatusCommandIsNotConstructed)
}

func (c ChangeVehicleStatusCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c ChangeVehicleStatusCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c ChangeVehicleStatusCommand) Status() vehicle.Status {
	return c.status
}

func (c ChangeVehicleStatusCommand) Plan() *vehicle.MaintenancePlan {
	if c.plan == nil {
		return nil
	}
	p := clonePlan(*c.plan)
	return &p
}
