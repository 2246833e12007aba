package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// ChangeDriverStatusCommandHandler puts a driver on or off duty. It holds the
// driver's lock so a running assignment sees either the old or the new status.
type ChangeDriverStatusCommandHandler struct {
	uowFactory DriverUoWFactory
	locker     ports.ResourceLocker
	settings   Settings
}

func NewChangeDriverStatusCommandHandler(
	uowFactory DriverUoWFactory,
	locker ports.ResourceLocker,
	settings Settings,
) ChangeDriverStatusCommandHandler {
	return ChangeDriverStatusCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		settings:   settings,
	}
}

func (h ChangeDriverStatusCommandHandler) Handle(ctx context.Context, cmd ChangeDriverStatusCommand) (*driver.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock, err := h.locker.Lock(ctx, kernel.ResourceDriver.LockKey(cmd.DriverID()))
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

	repo := uow.DriverRepository()
	d, err := get(ctx, h.settings, repo, cmd.AgencyID(), "driverId", cmd.DriverID())
	if err != nil {
		return nil, err
	}
	if err = d.ChangeStatus(cmd.Status(), h.settings.now()); err != nil {
		return nil, err
	}

	stored, err := put(ctx, h.settings, repo, d)
	if err != nil {
		return nil, err
	}

	if err = commit(ctx, uow); err != nil {
		return nil, err
	}
	return stored, nil
}
