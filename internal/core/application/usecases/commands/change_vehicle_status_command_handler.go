package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/ports"
)

type ChangeVehicleStatusCommandHandler struct {
	uowFactory VehicleUoWFactory
	locker     ports.ResourceLocker
	settings   Settings
}

func NewChangeVehicleStatusCommandHandler(
	uowFactory VehicleUoWFactory,
	locker ports.ResourceLocker,
	settings Settings,
) ChangeVehicleStatusCommandHandler {
	return ChangeVehicleStatusCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		settings:   settings,
	}
}

func (h ChangeVehicleStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeVehicleStatusCommand,
) (*vehicle.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, kernel.ResourceVehicle.LockKey(cmd.VehicleID()))
	if err != nil {
		return nil, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.VehicleRepository()
	v, err := get(ctx, h.settings, repo, cmd.AgencyID(), "vehicleId", cmd.VehicleID())
	if err != nil {
		return nil, err
	}
	if err = v.ChangeStatus(cmd.Status(), cmd.Plan(), h.settings.now()); err != nil {
		return nil, err
	}

	stored, err := put(ctx, h.settings, repo, v)
	if err != nil {
		return nil, err
	}

	if err = commit(ctx, uow); err != nil {
		return nil, err
	}
	return stored, nil
}
