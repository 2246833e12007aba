package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/keylock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const agency kernel.AgencyID = "agency-1"

var now = time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

func testSettings() commands.Settings {
	s := commands.DefaultSettings()
	s.Now = func() time.Time { return now }
	s.RetryDelay = time.Millisecond
	return s
}

func quoteData(t *testing.T) commands.QuoteRequestData {
	t.Helper()

	customer, err := kernel.NewContact("Aruzhan", "+77010000000", "aru@example.kz")
	require.NoError(t, err)
	pickup, err := kernel.NewAddress("12 Abay Ave, Almaty")
	require.NoError(t, err)
	delivery, err := kernel.NewAddress("5 Dostyk St, Almaty")
	require.NoError(t, err)

	return commands.QuoteRequestData{
		Customer:      customer,
		Pickup:        pickup,
		Delivery:      delivery,
		PreferredDate: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		BasePrice:     decimal.NewFromInt(150000),
		Breakdown:     quote.PriceBreakdown{"extraFloors": decimal.NewFromInt(40000)},
	}
}

func newQuote(t *testing.T) *quote.QuoteRequest {
	t.Helper()
	data := quoteData(t)
	q, err := quote.NewQuoteRequest(
		kernel.NewUUID(), agency, data.Customer, data.Pickup, data.Delivery,
		data.PreferredDate, data.BasePrice, data.Breakdown, now,
	)
	require.NoError(t, err)
	return q
}

func orderDetails(t *testing.T) order.Details {
	t.Helper()
	data := quoteData(t)
	pkg, err := order.NewPackage("std-2room", "2-room move", decimal.NewFromInt(150000))
	require.NoError(t, err)

	return order.Details{
		Customer:     data.Customer,
		Pickup:       data.Pickup,
		Delivery:     data.Delivery,
		Package:      pkg,
		TotalPrice:   decimal.NewFromInt(190000),
		ServiceDate:  time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		DeliveryTime: "09:00",
	}
}

// harness runs the handlers against the in-memory store.
type harness struct {
	t        *testing.T
	ctx      context.Context
	factory  ports.UnitOfWorkFactory
	locker   *keylock.Locker
	observer *recordingObserver
	settings commands.Settings
	clock    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := memory.NewDatabase(memory.WithClock(func() time.Time { return now }))

	h := &harness{
		t:        t,
		ctx:      t.Context(),
		factory:  memory.NewUnitOfWorkFactory(db, nil, logger),
		locker:   keylock.New(),
		observer: &recordingObserver{},
		settings: testSettings(),
		clock:    now,
	}
	h.settings.Now = func() time.Time { return h.clock }
	return h
}

func (h *harness) uow() commands.UoWFactoryFunc {
	return func() commands.UoW { return h.factory.Create() }
}

func (h *harness) quotes() commands.QuoteUoWFactoryFunc {
	return func() commands.QuoteUoW { return h.factory.Create() }
}

func (h *harness) drivers() commands.DriverUoWFactoryFunc {
	return func() commands.DriverUoW { return h.factory.Create() }
}

func (h *harness) vehicles() commands.VehicleUoWFactoryFunc {
	return func() commands.VehicleUoW { return h.factory.Create() }
}

func (h *harness) assignHandler() commands.AssignResourcesCommandHandler {
	return commands.NewAssignResourcesCommandHandler(h.uow(), h.locker, h.observer, h.settings)
}

func (h *harness) transitionHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(h.uow(), h.locker, h.observer, h.settings)
}

func (h *harness) createOrder() *order.CustomerOrder {
	h.t.Helper()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), agency, orderDetails(h.t))
	require.NoError(h.t, err)
	o, err := commands.NewCreateOrderCommandHandler(h.uow(), h.settings).Handle(h.ctx, cmd)
	require.NoError(h.t, err)
	return o
}

func (h *harness) registerDriver(name string) *driver.Driver {
	h.t.Helper()
	cmd, err := commands.NewRegisterDriverCommand(kernel.NewUUID(), agency, driver.Profile{
		Name:          name,
		Phone:         "+77010000001",
		LicenseNumber: "KZ-" + name,
	})
	require.NoError(h.t, err)
	d, err := commands.NewRegisterDriverCommandHandler(h.drivers(), h.settings).Handle(h.ctx, cmd)
	require.NoError(h.t, err)
	return d
}

func (h *harness) registerVehicle(plate string) *vehicle.Vehicle {
	h.t.Helper()
	cmd, err := commands.NewRegisterVehicleCommand(kernel.NewUUID(), agency, vehicle.Spec{
		Name:        "Gazelle " + plate,
		PlateNumber: plate,
		Capacity:    18,
	}, vehicle.MaintenancePlan{})
	require.NoError(h.t, err)
	v, err := commands.NewRegisterVehicleCommandHandler(h.vehicles(), h.settings).Handle(h.ctx, cmd)
	require.NoError(h.t, err)
	return v
}

func (h *harness) assign(
	o *order.CustomerOrder,
	d *driver.Driver,
	v *vehicle.Vehicle,
	date, clock string,
) (commands.AssignResourcesResult, error) {
	h.t.Helper()
	cmd, err := commands.NewAssignResourcesCommand(
		agency, o.ID(), d.ID(), v.ID(),
		commands.Window{Date: date, Time: clock},
		"", kernel.NewUUID(),
	)
	require.NoError(h.t, err)
	return h.assignHandler().Handle(h.ctx, cmd)
}

func (h *harness) transition(o *order.CustomerOrder, to order.Status, reason string) (commands.TransitionOrderResult, error) {
	h.t.Helper()
	cmd, err := commands.NewTransitionOrderCommand(agency, o.ID(), to, reason)
	require.NoError(h.t, err)
	return h.transitionHandler().Handle(h.ctx, cmd)
}
