package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentEngine_Assign(t *testing.T) {
	engine := services.NewAssignmentEngine(services.NewAvailabilityCalculator())

	assign := func(o *order.CustomerOrder, d *driver.Driver, v *vehicle.Vehicle, s kernel.Slot,
		current *schedule.Entry, entries ...*schedule.Entry,
	) (services.AssignmentResult, error) {
		return engine.Assign(services.Assignment{
			Order:      o,
			Driver:     d,
			Vehicle:    v,
			Slot:       s,
			Current:    current,
			Schedule:   entries,
			NewEntryID: kernel.NewUUID(),
			At:         now,
		})
	}

	t.Run("should create planned entry and bind order", func(t *testing.T) {
		o, d, v := newOrder(t), newDriver(t, agency), newVehicle(t, agency)

		result, err := assign(o, d, v, slot(t, "2025-12-15", "09:00"), nil)

		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, schedule.Planned, result.Entry.Status())
		assert.True(t, result.Entry.OrderRef().IsEqual(o.ID()))
		assert.Equal(t, "12 Abay Ave, Almaty", result.Entry.PickupAddress().String())
		assert.True(t, o.Driver().IsEqual(d.ID()))
		assert.True(t, o.Vehicle().IsEqual(v.ID()))
	})

	t.Run("should refuse second order on the same window", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		first, second := newOrder(t), newOrder(t)
		s := slot(t, "2025-12-15", "09:00")

		result, err := assign(first, d, v, s, nil)
		require.NoError(t, err)

		_, err = assign(second, d, v, s, nil, result.Entry)

		require.ErrorIs(t, err, errs.ErrResourceUnavailable)
		assert.Nil(t, second.Driver())
	})

	t.Run("should refuse a vehicle booked by another driver", func(t *testing.T) {
		v := newVehicle(t, agency)
		existing := entryFor(t, newDriver(t, agency), v, slot(t, "2025-12-15", "10:00"))

		_, err := assign(newOrder(t), newDriver(t, agency), v, slot(t, "2025-12-15", "09:00"), nil, existing)

		var unavailable *errs.ResourceUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "vehicle", unavailable.Resource)
	})

	t.Run("should accept back to back windows", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		existing := entryFor(t, d, v, slot(t, "2025-12-15", "07:00"))

		_, err := assign(newOrder(t), d, v, slot(t, "2025-12-15", "09:00"), nil, existing)

		require.NoError(t, err)
	})

	t.Run("should refuse busy and unavailable resources", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		running := entryFor(t, d, newVehicle(t, agency), slot(t, "2025-12-15", "06:00"))
		require.NoError(t, running.Transition(schedule.InProgress, now))

		_, err := assign(newOrder(t), d, v, slot(t, "2025-12-15", "14:00"), nil, running)
		require.ErrorIs(t, err, errs.ErrResourceUnavailable)

		idle := newDriver(t, agency)
		require.NoError(t, v.ChangeStatus(vehicle.Maintenance, nil, now))
		_, err = assign(newOrder(t), idle, v, slot(t, "2025-12-15", "14:00"), nil)
		require.ErrorIs(t, err, errs.ErrResourceUnavailable)
	})

	t.Run("should reschedule without conflicting with itself", func(t *testing.T) {
		o, d, v := newOrder(t), newDriver(t, agency), newVehicle(t, agency)
		first, err := assign(o, d, v, slot(t, "2025-12-15", "09:00"), nil)
		require.NoError(t, err)
		otherDriver := newDriver(t, agency)

		second, err := assign(o, otherDriver, v, slot(t, "2025-12-15", "10:00"), first.Entry, first.Entry)

		require.NoError(t, err)
		assert.False(t, second.Created)
		assert.True(t, second.Entry.ID().IsEqual(first.Entry.ID()))
		assert.Equal(t, "10:00", second.Entry.Time())
		assert.True(t, o.Driver().IsEqual(otherDriver.ID()))
	})

	t.Run("should refuse orders that already started", func(t *testing.T) {
		o, d, v := newOrder(t), newDriver(t, agency), newVehicle(t, agency)
		result, err := assign(o, d, v, slot(t, "2025-12-15", "09:00"), nil)
		require.NoError(t, err)
		require.NoError(t, o.Transition(order.Confirmed, order.TransitionMetadata{}, now))
		require.NoError(t, o.Transition(order.InProgress, order.TransitionMetadata{}, now))

		_, err = assign(o, d, v, slot(t, "2025-12-16", "09:00"), result.Entry, result.Entry)

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Equal(t, "2025-12-15", result.Entry.Date())
	})

	t.Run("should refuse entries that are no longer reschedulable", func(t *testing.T) {
		o, d, v := newOrder(t), newDriver(t, agency), newVehicle(t, agency)
		result, err := assign(o, d, v, slot(t, "2025-12-15", "09:00"), nil)
		require.NoError(t, err)
		require.NoError(t, result.Entry.Transition(schedule.InProgress, now))

		_, err = assign(o, d, v, slot(t, "2025-12-16", "09:00"), result.Entry, result.Entry)

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
	})

	t.Run("should hide resources of another agency", func(t *testing.T) {
		_, err := assign(newOrder(t), newDriver(t, "agency-2"), newVehicle(t, agency), slot(t, "2025-12-15", "09:00"), nil)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should keep the no double booking invariant across many requests", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		var booked []*schedule.Entry
		for i := range 8 {
			start := time.Date(2025, 12, 15, 8, 0, 0, 0, time.UTC).Add(time.Duration(i) * 45 * time.Minute)
			s, err := kernel.NewSlotAt(start, 2*time.Hour)
			require.NoError(t, err)

			result, err := assign(newOrder(t), d, v, s, nil, booked...)
			if err == nil {
				booked = append(booked, result.Entry)
			}
		}

		require.NotEmpty(t, booked)
		for i, a := range booked {
			for _, b := range booked[i+1:] {
				overlap, err := a.Slot().Overlaps(b.Slot())
				require.NoError(t, err)
				assert.False(t, overlap)
			}
		}
	})
}

func TestAssignmentEngine_Assign_NoDoubleBooking(t *testing.T) {
	engine := services.NewAssignmentEngine(services.NewAvailabilityCalculator())

	assign := func(d *driver.Driver, v *vehicle.Vehicle, s kernel.Slot, entries ...*schedule.Entry) error {
		_, err := engine.Assign(services.Assignment{
			Order:      newOrder(t),
			Driver:     d,
			Vehicle:    v,
			Slot:       s,
			Schedule:   entries,
			NewEntryID: kernel.NewUUID(),
			At:         now,
		})
		return err
	}

	t.Run("should refuse a window overlapping an entry from the previous evening", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		evening := entryFor(t, d, v, slot(t, "2025-12-14", "23:00"))

		err := assign(d, newVehicle(t, agency), slot(t, "2025-12-15", "00:00"), evening)
		require.ErrorIs(t, err, errs.ErrResourceUnavailable)

		err = assign(newDriver(t, agency), v, slot(t, "2025-12-15", "00:00"), evening)
		require.ErrorIs(t, err, errs.ErrResourceUnavailable)
	})

	t.Run("should accept the window right after an overnight entry", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		evening := entryFor(t, d, v, slot(t, "2025-12-14", "23:00"))

		err := assign(d, v, slot(t, "2025-12-15", "01:00"), evening)

		require.NoError(t, err)
	})

	t.Run("should refuse a window overlapping an overnight entry in progress", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		running := entryFor(t, d, v, slot(t, "2025-12-14", "23:00"))
		require.NoError(t, running.Transition(schedule.InProgress, now))

		err := assign(d, v, slot(t, "2025-12-15", "00:30"), running)

		require.ErrorIs(t, err, errs.ErrResourceUnavailable)
	})

	t.Run("should refuse a window overlapping a delayed entry", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		delayed := entryFor(t, d, v, slot(t, "2025-12-15", "09:00"))
		require.NoError(t, delayed.Transition(schedule.Delayed, now))

		err := assign(d, v, slot(t, "2025-12-15", "10:00"), delayed)

		var unavailable *errs.ResourceUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "driver", unavailable.Resource)
	})

	t.Run("should accept a window after a delayed entry", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		delayed := entryFor(t, d, v, slot(t, "2025-12-15", "09:00"))
		require.NoError(t, delayed.Transition(schedule.Delayed, now))

		err := assign(d, v, slot(t, "2025-12-15", "11:00"), delayed)

		require.NoError(t, err)
	})
}
