package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrMarkDelayedEntriesCommandIsNotConstructed = errors.New(
	"MarkDelayedEntriesCommand must be created via NewMarkDelayedEntriesCommand constructor",
)

// MarkDelayedEntriesCommand sweeps planned entries whose window already
// started. An empty agency sweeps every agency.
type MarkDelayedEntriesCommand struct {
	agencyID kernel.AgencyID

	guard guard.ConstructorGuard
}

func NewMarkDelayedEntriesCommand(agencyID kernel.AgencyID) (MarkDelayedEntriesCommand, error) {
	if agencyID != "" {
		if err := agencyID.Validate(); err != nil {
			return MarkDelayedEntriesCommand{}, err
		}
	}

	return MarkDelayedEntriesCommand{
		agencyID: agencyID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c MarkDelayedEntriesCommand) Validate() error {
	return c.guard.Validate(ErrMarkDelayedEntriesCommandIsNotConstructed)
}

func (c MarkDelayedEntriesCommand) AgencyID() kernel.AgencyID {
	return c.agencyID
}
