package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetResourceAvailabilityQueryIsNotConstructed = errors.New(
	"GetResourceAvailabilityQuery must be created via NewGetResourceAvailabilityQuery constructor",
)

type GetResourceAvailabilityQuery struct {
	agencyID   kernel.AgencyID
	kind       kernel.ResourceKind
	resourceID kernel.UUID
	at         time.Time

	guard guard.ConstructorGuard
}

// NewGetResourceAvailabilityQuery builds the query. A zero at means the
// moment the query is handled.
func NewGetResourceAvailabilityQuery(
	agencyID kernel.AgencyID,
	kind kernel.ResourceKind,
	resourceID kernel.UUID,
	at time.Time,
) (GetResourceAvailabilityQuery, error) {
	var kindErr error
	if kind != kernel.ResourceDriver && kind != kernel.ResourceVehicle {
		kindErr = errs.NewValueIsInvalidError("kind")
	}
	if err := errors.Join(agencyID.Validate(), kindErr, resourceID.Validate()); err != nil {
		return GetResourceAvailabilityQuery{}, err
	}
	return GetResourceAvailabilityQuery{
		agencyID:   agencyID,
		kind:       kind,
		resourceID: resourceID,
		at:         at,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetResourceAvailabilityQuery) Validate() error {
	return q.guard.Validate(ErrGetResourceAvailabilityQueryIsNotConstructed)
}

type GetResourceAvailabilityQueryHandler struct {
	readers    ReaderFactory
	calculator services.AvailabilityCalculator
	now        func() time.Time
}

func NewGetResourceAvailabilityQueryHandler(readers ReaderFactory, now func() time.Time) GetResourceAvailabilityQueryHandler {
	if now == nil {
		now = time.Now
	}
	return GetResourceAvailabilityQueryHandler{
		readers:    readers,
		calculator: services.NewAvailabilityCalculator(),
		now:        now,
	}
}

func (h GetResourceAvailabilityQueryHandler) Handle(
	ctx context.Context,
	query GetResourceAvailabilityQuery,
) (services.AvailabilityReport, error) {
	if err := query.Validate(); err != nil {
		return services.AvailabilityReport{}, err
	}

	r := h.readers.Create()

	var (
		resource services.Resource
		err      error
	)
	switch query.kind {
	case kernel.ResourceDriver:
		resource, err = getOwned(ctx, r.DriverRepository(), query.agencyID, "driverId", query.resourceID)
	case kernel.ResourceVehicle:
		resource, err = getOwned(ctx, r.VehicleRepository(), query.agencyID, "vehicleId", query.resourceID)
	}
	if err != nil {
		return services.AvailabilityReport{}, err
	}

	entries, err := collect(ctx, r.ScheduleRepository(), ports.ListOptions[*schedule.Entry]{
		Agency: query.agencyID,
		Where: func(e *schedule.Entry) bool {
			return e.Binds(query.kind, query.resourceID)
		},
	})
	if err != nil {
		return services.AvailabilityReport{}, err
	}

	at := query.at
	if at.IsZero() {
		at = h.now()
	}
	return h.calculator.Calculate(resource, entries, at), nil
}
