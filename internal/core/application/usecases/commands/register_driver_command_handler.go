package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
)

// RegisterDriverCommandHandler onboards an on-duty driver.
type RegisterDriverCommandHandler struct {
	uowFactory DriverUoWFactory
	settings   Settings
}

func NewRegisterDriverCommandHandler(uowFactory DriverUoWFactory, settings Settings) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

func (h RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) (*driver.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	d, err := driver.NewDriver(cmd.DriverID(), cmd.AgencyID(), cmd.Profile(), h.settings.now())
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

	stored, err := put(ctx, h.settings, uow.DriverRepository(), d)
	if err != nil {
		return nil, err
	}

	if err = commit(ctx, uow); err != nil {
		return nil, err
	}
	return stored, nil
}
