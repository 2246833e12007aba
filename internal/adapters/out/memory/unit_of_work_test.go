package memory_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kernel.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...kernel.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.EventName())
	}
	return names
}

type StoreSuite struct {
	suite.Suite
	ctx       context.Context
	publisher *recordingPublisher
	factory   *memory.UnitOfWorkFactory
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.publisher = &recordingPublisher{}
	db := memory.NewDatabase(memory.WithClock(func() time.Time { return fixedNow }))
	s.factory = memory.NewUnitOfWorkFactory(db, s.publisher, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *StoreSuite) newDriver(agency kernel.AgencyID, name string) *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), agency, driver.Profile{
		Name:          name,
		Phone:         "+77010000001",
		LicenseNumber: "KZ-1",
	}, fixedNow.Add(-time.Hour))
	s.Require().NoError(err)
	return d
}

func (s *StoreSuite) newQuote() *quote.QuoteRequest {
	customer, err := kernel.NewContact("Aruzhan", "+77010000000", "aru@example.kz")
	s.Require().NoError(err)
	pickup, err := kernel.NewAddress("A")
	s.Require().NoError(err)
	delivery, err := kernel.NewAddress("B")
	s.Require().NoError(err)
	q, err := quote.NewQuoteRequest(kernel.NewUUID(), "agency-1", customer, pickup, delivery,
		fixedNow, decimal.NewFromInt(1000), quote.PriceBreakdown{}, fixedNow)
	s.Require().NoError(err)
	return q
}

func (s *StoreSuite) collect(seq func(func(*driver.Driver, error) bool)) []string {
	var names []string
	for d, err := range seq {
		s.Require().NoError(err)
		names = append(names, d.Name())
	}
	return names
}

func (s *StoreSuite) TestPutGetReturnCopies() {
	repo := s.factory.Create().DriverRepository()
	d := s.newDriver("agency-1", "Nurlan")

	stored, err := repo.Put(s.ctx, d)
	s.Require().NoError(err)
	s.Equal(fixedNow, stored.UpdatedAt())

	s.Require().NoError(d.ChangeStatus(driver.OffDuty, fixedNow))
	s.Require().NoError(stored.ChangeStatus(driver.OffDuty, fixedNow))

	loaded, err := repo.Get(s.ctx, d.ID())
	s.Require().NoError(err)
	s.Equal(driver.OnDuty, loaded.Status())
}

func (s *StoreSuite) TestGetUnknownIsNotFound() {
	_, err := s.factory.Create().OrderRepository().Get(s.ctx, kernel.NewUUID())

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
	s.Contains(err.Error(), "object not found")
}

func (s *StoreSuite) TestPutRejectsInvalidEntity() {
	_, err := s.factory.Create().DriverRepository().Put(s.ctx, &driver.Driver{})

	s.Require().ErrorIs(err, driver.ErrDriverIsNotConstructed)
}

func (s *StoreSuite) TestListFiltersAndOrders() {
	repo := s.factory.Create().DriverRepository()
	for _, d := range []*driver.Driver{
		s.newDriver("agency-1", "Bolat"),
		s.newDriver("agency-2", "Other"),
		s.newDriver("agency-1", "Askar"),
		s.newDriver("agency-1", "Serik"),
	} {
		_, err := repo.Put(s.ctx, d)
		s.Require().NoError(err)
	}

	all := repo.List(s.ctx, ports.ListOptions[*driver.Driver]{Agency: "agency-1"})
	s.Equal([]string{"Bolat", "Askar", "Serik"}, s.collect(all))
	s.Equal([]string{"Bolat", "Askar", "Serik"}, s.collect(all), "sequence can be ranged again")

	sorted := repo.List(s.ctx, ports.ListOptions[*driver.Driver]{
		Agency: "agency-1",
		Where:  func(d *driver.Driver) bool { return d.Name() != "Serik" },
		OrderBy: func(a, b *driver.Driver) int {
			return strings.Compare(a.Name(), b.Name())
		},
	})
	s.Equal([]string{"Askar", "Bolat"}, s.collect(sorted))
}

func (s *StoreSuite) TestTransactionStagesWritesUntilCommit() {
	uow := s.factory.Create()
	outside := s.factory.Create().DriverRepository()
	d := s.newDriver("agency-1", "Nurlan")

	s.Require().NoError(uow.Begin(s.ctx))
	_, err := uow.DriverRepository().Put(s.ctx, d)
	s.Require().NoError(err)

	_, err = uow.DriverRepository().Get(s.ctx, d.ID())
	s.Require().NoError(err, "visible inside the transaction")
	_, err = outside.Get(s.ctx, d.ID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound, "invisible outside before commit")

	s.Require().NoError(uow.Commit(s.ctx))

	_, err = outside.Get(s.ctx, d.ID())
	s.Require().NoError(err)
}

func (s *StoreSuite) TestRollbackDiscardsWrites() {
	uow := s.factory.Create()
	d := s.newDriver("agency-1", "Nurlan")

	s.Require().NoError(uow.Begin(s.ctx))
	_, err := uow.DriverRepository().Put(s.ctx, d)
	s.Require().NoError(err)
	s.Require().NoError(uow.Rollback(s.ctx))

	_, err = uow.DriverRepository().Get(s.ctx, d.ID())
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
	s.Require().ErrorIs(uow.Rollback(s.ctx), memory.ErrNoTransaction)
	s.Require().ErrorIs(uow.Commit(s.ctx), memory.ErrNoTransaction)
}

func (s *StoreSuite) TestEventsArePublishedAfterCommitOnly() {
	uow := s.factory.Create()
	q := s.newQuote()
	s.Require().NoError(q.Transition(quote.Approved, quote.Review{ReviewedBy: "admin"}, fixedNow))

	s.Require().NoError(uow.Begin(s.ctx))
	_, err := uow.QuoteRepository().Put(s.ctx, q)
	s.Require().NoError(err)
	s.Empty(s.publisher.names())

	s.Require().NoError(uow.Commit(s.ctx))
	s.Equal([]string{quote.DecidedEventName}, s.publisher.names())
	s.Empty(q.DomainEvents())
}

func (s *StoreSuite) TestAutocommitPublishesImmediately() {
	q := s.newQuote()
	s.Require().NoError(q.Transition(quote.Rejected, quote.Review{}, fixedNow))

	_, err := s.factory.Create().QuoteRepository().Put(s.ctx, q)

	s.Require().NoError(err)
	s.Equal([]string{quote.DecidedEventName}, s.publisher.names())
}

func (s *StoreSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.factory.Create().DriverRepository().Put(ctx, s.newDriver("agency-1", "Nurlan"))
	s.Require().ErrorIs(err, context.Canceled)
	s.Require().ErrorIs(s.factory.Create().Begin(ctx), context.Canceled)
}

func TestUnitOfWork_BeginTwice(t *testing.T) {
	factory := memory.NewUnitOfWorkFactory(memory.NewDatabase(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	uow := factory.Create()

	require.NoError(t, uow.Begin(context.Background()))
	assert.ErrorIs(t, uow.Begin(context.Background()), memory.ErrTransactionAlreadyStarted)
}
