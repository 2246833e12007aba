package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrListScheduleQueryIsNotConstructed = errors.New(
	"ListScheduleQuery must be created via NewListScheduleQuery constructor",
)

// ListScheduleQuery lists the entries of one agency day. Closed entries are
// left out unless IncludeClosed is set.
type ListScheduleQuery struct {
	agencyID      kernel.AgencyID
	date          string
	includeClosed bool

	guard guard.ConstructorGuard
}

func NewListScheduleQuery(agencyID kernel.AgencyID, date string, includeClosed bool) (ListScheduleQuery, error) {
	var dateErr error
	if date == "" {
		dateErr = errs.NewValueIsRequiredError("date")
	} else if _, err := time.Parse(kernel.DateLayout, date); err != nil {
		dateErr = errs.NewValueIsInvalidErrorWithCause("date", err)
	}
	if err := errors.Join(agencyID.Validate(), dateErr); err != nil {
		return ListScheduleQuery{}, err
	}
	return ListScheduleQuery{
		agencyID:      agencyID,
		date:          date,
		includeClosed: includeClosed,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (q ListScheduleQuery) Validate() error {
	return q.guard.Validate(ErrListScheduleQueryIsNotConstructed)
}

type ListScheduleQueryHandler struct {
	readers ReaderFactory
}

func NewListScheduleQueryHandler(readers ReaderFactory) ListScheduleQueryHandler {
	return ListScheduleQueryHandler{readers: readers}
}

// Handle returns the entries ordered by start, then id.
func (h ListScheduleQueryHandler) Handle(ctx context.Context, query ListScheduleQuery) ([]*schedule.Entry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return collect(ctx, h.readers.Create().ScheduleRepository(), ports.ListOptions[*schedule.Entry]{
		Agency: query.agencyID,
		Where: func(e *schedule.Entry) bool {
			if e.Date() != query.date {
				return false
			}
			return query.includeClosed || e.Status().IsOpen()
		},
		OrderBy: func(a, b *schedule.Entry) int {
			if c := a.Slot().Start().Compare(b.Slot().Start()); c != 0 {
				return c
			}
			return a.ID().Compare(b.ID())
		},
	})
}
