package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after
// Begin write into the transaction; outside a transaction every Put commits
// on its own. Domain events raised by aggregates written through the
// repositories are published after a successful Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	QuoteRepository() QuoteRepository
	OrderRepository() OrderRepository
	DriverRepository() DriverRepository
	VehicleRepository() VehicleRepository
	ScheduleRepository() ScheduleRepository
}

// AggregateTracker collects the aggregates written during a unit of work so
// their events can be published once the transaction commits.
type AggregateTracker interface {
	Track(aggregate any)
}
