package queries_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const agency kernel.AgencyID = "agency-1"

var now = time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

type store struct {
	t       *testing.T
	uow     ports.UnitOfWork
	readers queries.ReaderFactoryFunc
}

func newStore(t *testing.T) *store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := memory.NewDatabase(memory.WithClock(func() time.Time { return now }))
	factory := memory.NewUnitOfWorkFactory(db, nil, logger)

	return &store{
		t:       t,
		uow:     factory.Create(),
		readers: func() queries.Reader { return factory.Create() },
	}
}

func (s *store) contact() (kernel.Contact, kernel.Address, kernel.Address) {
	s.t.Helper()
	customer, err := kernel.NewContact("Aruzhan", "+77010000000", "aru@example.kz")
	require.NoError(s.t, err)
	pickup, err := kernel.NewAddress("12 Abay Ave, Almaty")
	require.NoError(s.t, err)
	delivery, err := kernel.NewAddress("5 Dostyk St, Almaty")
	require.NoError(s.t, err)
	return customer, pickup, delivery
}

func (s *store) quote(agencyID kernel.AgencyID) *quote.QuoteRequest {
	s.t.Helper()
	customer, pickup, delivery := s.contact()
	q, err := quote.NewQuoteRequest(
		kernel.NewUUID(), agencyID, customer, pickup, delivery,
		time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(150000), quote.PriceBreakdown{}, now,
	)
	require.NoError(s.t, err)
	stored, err := s.uow.QuoteRepository().Put(s.t.Context(), q)
	require.NoError(s.t, err)
	return stored
}

func (s *store) order() *order.CustomerOrder {
	s.t.Helper()
	customer, pickup, delivery := s.contact()
	pkg, err := order.NewPackage("std-2room", "2-room move", decimal.NewFromInt(150000))
	require.NoError(s.t, err)
	o, err := order.NewCustomerOrder(kernel.NewUUID(), agency, order.Details{
		Customer:     customer,
		Pickup:       pickup,
		Delivery:     delivery,
		Package:      pkg,
		TotalPrice:   decimal.NewFromInt(150000),
		ServiceDate:  time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		DeliveryTime: "09:00",
	}, now)
	require.NoError(s.t, err)
	stored, err := s.uow.OrderRepository().Put(s.t.Context(), o)
	require.NoError(s.t, err)
	return stored
}

func (s *store) driver() *driver.Driver {
	s.t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), agency, driver.Profile{
		Name:          "Nurlan",
		Phone:         "+77010000001",
		LicenseNumber: "KZ-001",
	}, now)
	require.NoError(s.t, err)
	stored, err := s.uow.DriverRepository().Put(s.t.Context(), d)
	require.NoError(s.t, err)
	return stored
}

func (s *store) vehicle(plate string, next *time.Time) *vehicle.Vehicle {
	s.t.Helper()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), agency, vehicle.Spec{
		Name:        "Gazelle",
		PlateNumber: plate,
		Capacity:    18,
	}, vehicle.MaintenancePlan{Next: next}, now)
	require.NoError(s.t, err)
	stored, err := s.uow.VehicleRepository().Put(s.t.Context(), v)
	require.NoError(s.t, err)
	return stored
}

func (s *store) entry(o *order.CustomerOrder, d *driver.Driver, v *vehicle.Vehicle, date, clock string) *schedule.Entry {
	s.t.Helper()
	slot, err := kernel.NewSlot(date, clock, 2*time.Hour, time.UTC)
	require.NoError(s.t, err)
	e, err := schedule.NewEntry(kernel.NewUUID(), agency, o.ID(), schedule.Binding{
		Slot:      slot,
		DriverID:  d.ID(),
		VehicleID: v.ID(),
	}, schedule.Job{
		Type:     schedule.DefaultJobType,
		Pickup:   o.PickupAddress(),
		Delivery: o.DeliveryAddress(),
	}, now)
	require.NoError(s.t, err)
	stored, err := s.uow.ScheduleRepository().Put(s.t.Context(), e)
	require.NoError(s.t, err)
	return stored
}

func (s *store) save(e *schedule.Entry) {
	s.t.Helper()
	_, err := s.uow.ScheduleRepository().Put(s.t.Context(), e)
	require.NoError(s.t, err)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
