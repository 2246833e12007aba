// Package ports defines the contracts between the dispatch core and its
// adapters: the entity store, the unit of work, resource locking and event
// publishing.
package ports

import (
	"context"
	"iter"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/model/vehicle"
)

// Entity is what the store can hold. Every record is an aggregate that knows
// its id and agency, validates itself and can be copied.
type Entity[T any] interface {
	ID() kernel.UUID
	AgencyID() kernel.AgencyID
	Validate() error
	UpdatedAt() time.Time
	Touch(at time.Time)
	Clone() T
}

// ListOptions narrows and orders a List call.
type ListOptions[T any] struct {
	// Agency restricts the listing to one agency. Stores push it down to
	// their query.
	Agency kernel.AgencyID
	// Where is applied to every candidate; nil keeps all of them.
	Where func(T) bool
	// OrderBy sorts the result; nil keeps insertion order.
	OrderBy func(a, b T) int
}

// Repository is the keyed store of one entity kind. Writes replace the whole
// record.
//
// Example:
//
//	stored, err := uow.OrderRepository().Put(ctx, o)
//	if err != nil {
//	    return err
//	}
//	for e, err := range uow.ScheduleRepository().List(ctx, ports.ListOptions[*schedule.Entry]{Agency: agencyID}) {
//	    if err != nil {
//	        return err
//	    }
//	    _ = e
//	}
type Repository[T Entity[T]] interface {
	// Put inserts or replaces the entity by id. The entity is validated and
	// its updatedAt is stamped. The returned value is a copy of what was stored.
	Put(ctx context.Context, entity T) (T, error)

	// Get returns a copy of the entity or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (T, error)

	// List yields copies of the matching entities. The sequence is lazy and
	// can be ranged over more than once; each pass reads the store again.
	List(ctx context.Context, opts ListOptions[T]) iter.Seq2[T, error]
}

type (
	QuoteRepository    = Repository[*quote.QuoteRequest]
	OrderRepository    = Repository[*order.CustomerOrder]
	DriverRepository   = Repository[*driver.Driver]
	VehicleRepository  = Repository[*vehicle.Vehicle]
	ScheduleRepository = Repository[*schedule.Entry]
)
