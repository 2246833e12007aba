package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

type RegisterDriverCommand struct {
	driverID kernel.UUID
	agencyID kernel.AgencyID
	profile  driver.Profile

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(driverID kernel.UUID, agencyID kernel.AgencyID, profile driver.Profile) (RegisterDriverCommand, error) {
	if err := errors.Join(driverID.Validate(), agencyID.Validate()); err != nil {
		return RegisterDriverCommand{}, err
	}

	profile.HomeVehicle = kernel.ClonePtr(profile.HomeVehicle)
	return RegisterDriverCommand{
		driverID: driverID,
		agencyID: agencyID,
		profile:  profile,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c RegisterDriverCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c RegisterDriverCommand) Profile() driver.Profile {
	return c.profile
}
