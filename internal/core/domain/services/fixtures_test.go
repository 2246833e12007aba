package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/model/vehicle"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const agency kernel.AgencyID = "agency-1"

var now = time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)

func newDriver(t *testing.T, a kernel.AgencyID) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), a, driver.Profile{
		Name:          "Nurlan",
		Phone:         "+77010000001",
		LicenseNumber: "KZ-123456",
	}, now)
	require.NoError(t, err)
	return d
}

func newVehicle(t *testing.T, a kernel.AgencyID) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(kernel.NewUUID(), a, vehicle.Spec{
		Name:        "Isuzu NQR",
		PlateNumber: "123ABC02",
		Capacity:    18,
	}, vehicle.MaintenancePlan{}, now)
	require.NoError(t, err)
	return v
}

func newOrder(t *testing.T) *order.CustomerOrder {
	t.Helper()
	customer, err := kernel.NewContact("Aruzhan", "+77010000000", "aru@example.kz")
	require.NoError(t, err)
	pickup, err := kernel.NewAddress("12 Abay Ave, Almaty")
	require.NoError(t, err)
	delivery, err := kernel.NewAddress("5 Dostyk St, Almaty")
	require.NoError(t, err)
	pkg, err := order.NewPackage("std", "Standard move", decimal.NewFromInt(150000))
	require.NoError(t, err)

	o, err := order.NewCustomerOrder(kernel.NewUUID(), agency, order.Details{
		Customer:     customer,
		Pickup:       pickup,
		Delivery:     delivery,
		Package:      pkg,
		TotalPrice:   decimal.NewFromInt(150000),
		ServiceDate:  time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		DeliveryTime: "09:00",
	}, now)
	require.NoError(t, err)
	return o
}

func slot(t *testing.T, date, clock string) kernel.Slot {
	t.Helper()
	s, err := kernel.NewSlot(date, clock, 2*time.Hour, time.UTC)
	require.NoError(t, err)
	return s
}

func entryFor(t *testing.T, d *driver.Driver, v *vehicle.Vehicle, s kernel.Slot) *schedule.Entry {
	t.Helper()
	pickup, err := kernel.NewAddress("A")
	require.NoError(t, err)
	delivery, err := kernel.NewAddress("B")
	require.NoError(t, err)

	e, err := schedule.NewEntry(kernel.NewUUID(), agency, kernel.NewUUID(), schedule.Binding{
		Slot:      s,
		DriverID:  d.ID(),
		VehicleID: v.ID(),
	}, schedule.Job{Pickup: pickup, Delivery: delivery}, now)
	require.NoError(t, err)
	return e
}
