// Package postgres is the relational store of the dispatch service. It wires
// the per-kind GORM repositories into a unit of work whose transaction spans
// every repository obtained from it.
//
// Usage:
//
//	factory := postgres.NewUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if _, err := uow.OrderRepository().Put(ctx, o); err != nil {
//	    return err
//	}
//	if _, err := uow.ScheduleRepository().Put(ctx, entry); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each UnitOfWork holds at most one transaction and must not be shared
// between goroutines.
package postgres

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/gormrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/quoterepo"
	"dispatch/internal/adapters/out/postgres/schedulerepo"
	"dispatch/internal/adapters/out/postgres/vehiclerepo"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates units of work over one connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "postgres_uow"),
		now:       time.Now,
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:        f.db,
		publisher: f.publisher,
		logger:    f.logger,
		now:       f.now,
	}
}

// GormUnitOfWork wraps one GORM transaction. Aggregates written inside the
// transaction are tracked and their events published after Commit; writes
// outside a transaction publish right away.
type GormUnitOfWork struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	tx      *gorm.DB
	tracked []ports.EventSource
}

// Begin opens the transaction. A second Begin while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	uow.tracked = nil
	return nil
}

func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	uow.mu.Lock()
	if uow.tx == nil {
		uow.mu.Unlock()
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	tracked := uow.tracked
	uow.tx, uow.tracked = nil, nil
	uow.mu.Unlock()

	if err != nil {
		return err
	}

	for _, source := range tracked {
		uow.publish(ctx, source)
	}
	return nil
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx, uow.tracked = nil, nil
	return err
}

func (uow *GormUnitOfWork) QuoteRepository() ports.QuoteRepository {
	db, opts := uow.session()
	return quoterepo.NewRepository(db, opts)
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db, opts := uow.session()
	return orderrepo.NewRepository(db, opts)
}

func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	db, opts := uow.session()
	return driverrepo.NewRepository(db, opts)
}

func (uow *GormUnitOfWork) VehicleRepository() ports.VehicleRepository {
	db, opts := uow.session()
	return vehiclerepo.NewRepository(db, opts)
}

func (uow *GormUnitOfWork) ScheduleRepository() ports.ScheduleRepository {
	db, opts := uow.session()
	return schedulerepo.NewRepository(db, opts)
}

// Track registers a written aggregate. Outside a transaction its events are
// published immediately.
func (uow *GormUnitOfWork) Track(aggregate any) {
	source, ok := aggregate.(ports.EventSource)
	if !ok {
		return
	}

	uow.mu.Lock()
	if uow.tx != nil {
		uow.tracked = append(uow.tracked, source)
		uow.mu.Unlock()
		return
	}
	uow.mu.Unlock()

	uow.publish(context.Background(), source)
}

// session returns the handle repositories write through: the open
// transaction if any, the pool otherwise.
func (uow *GormUnitOfWork) session() (*gorm.DB, gormrepo.Options) {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	opts := gormrepo.Options{
		Tracker: uow,
		Now:     uow.now,
	}
	if uow.tx != nil {
		opts.InTransaction = true
		return uow.tx, opts
	}
	return uow.db, opts
}

func (uow *GormUnitOfWork) publish(ctx context.Context, source ports.EventSource) {
	if uow.publisher == nil {
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
