package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrListMaintenanceDueVehiclesQueryIsNotConstructed = errors.New(
	"ListMaintenanceDueVehiclesQuery must be created via NewListMaintenanceDueVehiclesQuery constructor",
)

// ListMaintenanceDueVehiclesQuery finds vehicles whose next maintenance date
// has been reached. An empty agency scans every agency.
type ListMaintenanceDueVehiclesQuery struct {
	agencyID kernel.AgencyID
	at       time.Time

	guard guard.ConstructorGuard
}

func NewListMaintenanceDueVehiclesQuery(agencyID kernel.AgencyID, at time.Time) (ListMaintenanceDueVehiclesQuery, error) {
	if agencyID != "" {
		if err := agencyID.Validate(); err != nil {
			return ListMaintenanceDueVehiclesQuery{}, err
		}
	}
	return ListMaintenanceDueVehiclesQuery{
		agencyID: agencyID,
		at:       at,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q ListMaintenanceDueVehiclesQuery) Validate() error {
	return q.guard.Validate(ErrListMaintenanceDueVehiclesQueryIsNotConstructed)
}

type ListMaintenanceDueVehiclesQueryHandler struct {
	readers ReaderFactory
	now     func() time.Time
}

func NewListMaintenanceDueVehiclesQueryHandler(readers ReaderFactory, now func() time.Time) ListMaintenanceDueVehiclesQueryHandler {
	if now == nil {
		now = time.Now
	}
	return ListMaintenanceDueVehiclesQueryHandler{readers: readers, now: now}
}

// Handle returns the due vehicles ordered by plate number.
func (h ListMaintenanceDueVehiclesQueryHandler) Handle(
	ctx context.Context,
	query ListMaintenanceDueVehiclesQuery,
) ([]*vehicle.Vehicle, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	at := query.at
	if at.IsZero() {
		at = h.now()
	}

	return collect(ctx, h.readers.Create().VehicleRepository(), ports.ListOptions[*vehicle.Vehicle]{
		Agency: query.agencyID,
		Where: func(v *vehicle.Vehicle) bool {
			return v.IsMaintenanceDue(at)
		},
		OrderBy: func(a, b *vehicle.Vehicle) int {
			return strings.Compare(a.PlateNumber(), b.PlateNumber())
		},
	})
}
