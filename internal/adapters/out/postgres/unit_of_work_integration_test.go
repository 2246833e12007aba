//go:build integration

package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the store against a real PostgreSQL
// migrated with the embedded goose migrations.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	publisher *recordingPublisher
	factory   ports.UnitOfWorkFactory
}

func TestUnitOfWorkIntegrationSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := postgres_adapter.Open(ctx, postgres_adapter.Config{Driver: postgres_adapter.DriverPostgres, DSN: dsn}, logger)
	suite.Require().NoError(err)
	suite.db = db

	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(postgres_adapter.Migrate(ctx, sqlDB, "up"))

	suite.publisher = &recordingPublisher{}
	suite.factory = postgres_adapter.NewUnitOfWorkFactory(db, suite.publisher, logger)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE quote_requests, customer_orders, drivers, vehicles, schedule_entries").Error
	suite.Require().NoError(err)
	suite.publisher.events = nil
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *order.CustomerOrder {
	customer, err := kernel.NewContact("Aruzhan", "+77010000000", "aru@example.kz")
	suite.Require().NoError(err)
	pickup, err := kernel.NewAddress("12 Abay Ave, Almaty")
	suite.Require().NoError(err)
	delivery, err := kernel.NewAddress("5 Dostyk St, Almaty")
	suite.Require().NoError(err)
	pkg, err := order.NewPackage("std-2room", "2-room move", decimal.NewFromInt(150000))
	suite.Require().NoError(err)

	o, err := order.NewCustomerOrder(kernel.NewUUID(), "agency-1", order.Details{
		Customer:     customer,
		Pickup:       pickup,
		Delivery:     delivery,
		Package:      pkg,
		TotalPrice:   decimal.NewFromInt(190000),
		ServiceDate:  time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		DeliveryTime: "09:00",
	}, placedAt)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUncommittedWritesAreInvisible() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder()
	_, err := uow.OrderRepository().Put(ctx, o)
	suite.Require().NoError(err)

	_, err = uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err, "the transaction reads its own writes")

	_, err = suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().NoError(uow.Commit(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUniqueViolationRollsBackToSavepoint() {
	ctx := context.Background()
	existing := suite.newOrder()
	_, err := suite.factory.Create().OrderRepository().Put(ctx, existing)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	snapshot := suite.newOrder().Snapshot()
	snapshot.Number = existing.Number()
	clash, err := order.RestoreCustomerOrder(snapshot)
	suite.Require().NoError(err)

	_, err = uow.OrderRepository().Put(ctx, clash)
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)

	d, err := driver.NewDriver(kernel.NewUUID(), "agency-1", driver.Profile{
		Name:          "Nurlan",
		Phone:         "+77010000001",
		LicenseNumber: "KZ-123456",
	}, placedAt)
	suite.Require().NoError(err)
	_, err = uow.DriverRepository().Put(ctx, d)
	suite.Require().NoError(err, "the transaction is still usable after the failed write")
	suite.Require().NoError(uow.Commit(ctx))

	_, err = suite.factory.Create().DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestListWritesWhileIterating() {
	ctx := context.Background()
	for range 3 {
		_, err := suite.factory.Create().OrderRepository().Put(ctx, suite.newOrder())
		suite.Require().NoError(err)
	}

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	repo := uow.OrderRepository()

	confirmed := 0
	for o, err := range repo.List(ctx, ports.ListOptions[*order.CustomerOrder]{Agency: "agency-1"}) {
		suite.Require().NoError(err)
		suite.Require().NoError(o.Transition(order.Confirmed, order.TransitionMetadata{}, placedAt))
		_, err = repo.Put(ctx, o)
		suite.Require().NoError(err)
		confirmed++
	}
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(3, confirmed)
	suite.Len(suite.publisher.names(), 3)
}
