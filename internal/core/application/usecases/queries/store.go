// Package queries contains the read side of dispatch. Handlers read committed
// state through the repositories without opening a transaction.
package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Reader is the part of a unit of work the queries use.
type Reader interface {
	QuoteRepository() ports.QuoteRepository
	OrderRepository() ports.OrderRepository
	DriverRepository() ports.DriverRepository
	VehicleRepository() ports.VehicleRepository
	ScheduleRepository() ports.ScheduleRepository
}

type ReaderFactory interface {
	Create() Reader
}

// ReaderFactoryFunc adapts a ports.UnitOfWorkFactory:
//
//	queries.ReaderFactoryFunc(func() queries.Reader { return factory.Create() })
type ReaderFactoryFunc func() Reader

func (f ReaderFactoryFunc) Create() Reader {
	return f()
}

func getOwned[T ports.Entity[T]](
	ctx context.Context,
	repo ports.Repository[T],
	agency kernel.AgencyID,
	param string,
	id kernel.UUID,
) (T, error) {
	var zero T

	entity, err := repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if entity.AgencyID() != agency {
		return zero, errs.NewObjectNotFoundError(param, id)
	}
	return entity, nil
}

func collect[T ports.Entity[T]](ctx context.Context, repo ports.Repository[T], opts ports.ListOptions[T]) ([]T, error) {
	out := make([]T, 0)
	for entity, err := range repo.List(ctx, opts) {
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
