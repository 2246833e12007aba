package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrChangeDriverStatusCommandIsNotConstructed = errors.New(
	"ChangeDriverStatusCommand must be created via NewChangeDriverStatusCommand constructor",
)

type ChangeDriverStatusCommand struct {
	agencyID kernel.AgencyID
	driverID kernel.UUID
	status   driver.Status

	guard guard.ConstructorGuard
}

func NewChangeDriverStatusCommand(
	agencyID kernel.AgencyID,
	driverID kernel.UUID,
	status driver.Status,
) (ChangeDriverStatusCommand, error) {
	if err := errors.Join(agencyID.Validate(), driverID.Validate(), status.Validate()); err != nil {
		return ChangeDriverStatusCommand{}, err
	}

	return ChangeDriverStatusCommand{
		agencyID: agencyID,
		driverID: driverID,
		status:   status,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeDriverStatusCommandIsNotConstructed)
}

func (c ChangeDriverStatusCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}

func (c ChangeDriverStatusCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c ChangeDriverStatusCommand) Status() driver.Status {
	return c.status
}
