package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/ports"
)

var (
	ErrTransactionAlreadyStarted = errors.New("transaction already started")
	ErrNoTransaction             = errors.New("no active transaction")
)

// UnitOfWorkFactory creates units of work over one Database.
type UnitOfWorkFactory struct {
	db        *Database
	publisher ports.EventPublisher
	logger    *slog.Logger
}

func NewUnitOfWorkFactory(db *Database, publisher ports.EventPublisher, logger *slog.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "memory_uow"),
	}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{
		db:        f.db,
		publisher: f.publisher,
		logger:    f.logger,
	}
}

// UnitOfWork stages writes in memory between Begin and Commit. Reads inside
// the transaction see the staged rows first.
type UnitOfWork struct {
	db        *Database
	publisher ports.EventPublisher
	logger    *slog.Logger

	mu      sync.Mutex
	active  bool
	writes  []stagedWrite
	tracked []ports.EventSource
}

func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.active {
		return ErrTransactionAlreadyStarted
	}
	uow.active = true
	uow.writes = nil
	uow.tracked = nil
	return nil
}

func (uow *UnitOfWork) Commit(ctx context.Context) error {
	uow.mu.Lock()
	if !uow.active {
		uow.mu.Unlock()
		return ErrNoTransaction
	}
	if err := ctx.Err(); err != nil {
		uow.mu.Unlock()
		return err
	}

	writes, tracked := uow.writes, uow.tracked
	uow.active, uow.writes, uow.tracked = false, nil, nil
	uow.mu.Unlock()

	uow.db.apply(writes)

	for _, source := range tracked {
		uow.publish(ctx, source)
	}
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if !uow.active {
		return ErrNoTransaction
	}
	uow.active, uow.writes, uow.tracked = false, nil, nil
	return nil
}

func (uow *UnitOfWork) QuoteRepository() ports.QuoteRepository {
	return newRepository[*quote.QuoteRequest](uow.db, quotesTable, "quoteId", uow)
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return newRepository[*order.CustomerOrder](uow.db, ordersTable, "orderId", uow)
}

func (uow *UnitOfWork) DriverRepository() ports.DriverRepository {
	return newRepository[*driver.Driver](uow.db, driversTable, "driverId", uow)
}

func (uow *UnitOfWork) VehicleRepository() ports.VehicleRepository {
	return newRepository[*vehicle.Vehicle](uow.db, vehiclesTable, "vehicleId", uow)
}

func (uow *UnitOfWork) ScheduleRepository() ports.ScheduleRepository {
	return newRepository[*schedule.Entry](uow.db, entriesTable, "scheduleEntryId", uow)
}

// Track remembers an aggregate whose events are published after Commit.
func (uow *UnitOfWork) Track(aggregate any) {
	source, ok := aggregate.(ports.EventSource)
	if !ok {
		return
	}

	uow.mu.Lock()
	defer uow.mu.Unlock()
	uow.tracked = append(uow.tracked, source)
}

func (uow *UnitOfWork) inTransaction() bool {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	return uow.active
}

func (uow *UnitOfWork) stage(w stagedWrite) {
	uow.mu.Lock()
	defer uow.mu.Unlock()
	uow.writes = append(uow.writes, w)
}

// staged returns the latest staged row of the transaction, if any.
func (uow *UnitOfWork) staged(name string, id kernel.UUID) (any, bool) {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	for i := len(uow.writes) - 1; i >= 0; i-- {
		w := uow.writes[i]
		if w.table == name && w.id.IsEqual(id) {
			return w.row, true
		}
	}
	return nil, false
}

// overlay replaces committed rows with staged ones and appends rows first
// written in this transaction, keeping insertion order.
func (uow *UnitOfWork) overlay(name string, committed []any) []any {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if len(uow.writes) == 0 {
		return committed
	}

	t := newTable()
	for _, row := range committed {
		t.put(row.(interface{ ID() kernel.UUID }).ID(), row)
	}
	for _, w := range uow.writes {
		if w.table == name {
			t.put(w.id, w.row)
		}
	}

	out := make([]any, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

// publish sends and clears the events of a committed aggregate. A failed
// publish is logged; the write itself already succeeded.
func (uow *UnitOfWork) publish(ctx context.Context, aggregate any) {
	source, ok := aggregate.(ports.EventSource)
	if !ok || uow.publisher == nil {
		return
	}

	events := source.DomainEvents()
	if len(events) == 0 {
		return
	}
	source.ClearDomainEvents()

	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.ErrorContext(ctx, "failed to publish domain events",
			"count", len(events), "error", err)
	}
}
