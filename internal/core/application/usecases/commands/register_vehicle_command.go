package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterVehicleCommandIsNotConstructed = errors.New(
	"RegisterVehicleCommand must be created via NewRegisterVehicleCommand constructor",
)

type RegisterVehicleCommand struct {
	vehicleID kernel.UUID
	agencyID  kernel.AgencyID
	spec      vehicle.Spec
	plan      vehicle.MaintenancePlan

	guard guard.ConstructorGuard
}

func NewRegisterVehicleCommand(
	vehicleID kernel.UUID,
	agencyID kernel.AgencyID,
	spec vehicle.Spec,
	plan vehicle.MaintenancePlan,
) (RegisterVehicleCommand, error) {
	if err := errors.Join(vehicleID.Validate(), agencyID.Validate()); err != nil {
		return RegisterVehicleCommand{}, err
	}

	return RegisterVehicleCommand{
		vehicleID: vehicleID,
		agencyID:  agencyID,
		spec:      spec,
		plan:      clonePlan(plan),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterVehicleCommand) Validate() error {
	return c.guard.Validate(ErrRegisterVehicleCommandIsNotConstructed)
}

func (c RegisterVehicleCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c RegisterVehicleCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c RegisterVehicleCommand) Spec() vehicle.Spec {
	return c.spec
}

func (c RegisterVehicleCommand) Plan() vehicle.MaintenancePlan {
	return clonePlan(c.plan)
}

func clonePlan(p vehicle.MaintenancePlan) vehicle.MaintenancePlan {
	return vehicle.MaintenancePlan{
		Last: kernel.ClonePtr(p.Last),
		Next: kernel.ClonePtr(p.Next),
	}
}
