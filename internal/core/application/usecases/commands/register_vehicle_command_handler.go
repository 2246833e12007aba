package commands

import (
	"context"

	"dispatch/internal/core/domain/model/vehicle"
)

// RegisterVehicleCommandHandler adds an active vehicle to the fleet.
type RegisterVehicleCommandHandler struct {
	uowFactory VehicleUoWFactory
	settings   Settings
}

func NewRegisterVehicleCommandHandler(uowFactory VehicleUoWFactory, settings Settings) RegisterVehicleCommandHandler {
	return RegisterVehicleCommandHandler{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

func (h RegisterVehicleCommandHandler) Handle(ctx context.Context, cmd RegisterVehicleCommand) (*vehicle.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	v, err := vehicle.NewVehicle(cmd.VehicleID(), cmd.AgencyID(), cmd.Spec(), cmd.Plan(), h.settings.now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, err := put(ctx, h.settings, uow.VehicleRepository(), v)
	if err != nil {
		return nil, err
	}

	if err = commit(ctx, uow); err != nil {
		return nil, err
	}
	return stored, nil
}
