package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCalculator_Calculate(t *testing.T) {
	calc := services.NewAvailabilityCalculator()
	at := time.Date(2025, 12, 15, 7, 0, 0, 0, time.UTC)

	t.Run("should report available and free immediately without entries", func(t *testing.T) {
		d := newDriver(t, agency)

		report := calc.Calculate(d, nil, at)

		assert.Equal(t, services.Available, report.Availability)
		assert.Nil(t, report.NextFreeAt)
		assert.Empty(t, report.Commitments)
	})

	t.Run("should report assigned with next free slot after last planned entry", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		morning := entryFor(t, d, v, slot(t, "2025-12-15", "09:00"))
		evening := entryFor(t, d, v, slot(t, "2025-12-15", "17:00"))
		delayed := entryFor(t, d, v, slot(t, "2025-12-16", "09:00"))
		require.NoError(t, delayed.Transition(schedule.Delayed, now))

		report := calc.Calculate(d, []*schedule.Entry{evening, delayed, morning}, at)

		assert.Equal(t, services.Assigned, report.Availability)
		require.NotNil(t, report.NextFreeAt)
		assert.Equal(t, time.Date(2025, 12, 15, 19, 0, 0, 0, time.UTC), *report.NextFreeAt)
		require.Len(t, report.Commitments, 3)
		assert.True(t, report.Commitments[0].ID().IsEqual(morning.ID()))
	})

	t.Run("should fall back to last collected entry when nothing is planned", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		delayed := entryFor(t, d, v, slot(t, "2025-12-15", "09:00"))
		require.NoError(t, delayed.Transition(schedule.Delayed, now))

		report := calc.Calculate(v, []*schedule.Entry{delayed}, at)

		assert.Equal(t, services.Assigned, report.Availability)
		assert.Equal(t, time.Date(2025, 12, 15, 11, 0, 0, 0, time.UTC), *report.NextFreeAt)
	})

	t.Run("should report busy while an entry is in progress", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		running := entryFor(t, d, v, slot(t, "2025-12-15", "06:00"))
		require.NoError(t, running.Transition(schedule.InProgress, at))

		assert.Equal(t, services.Busy, calc.Calculate(d, []*schedule.Entry{running}, at).Availability)
		assert.Equal(t, services.Busy, calc.Calculate(v, []*schedule.Entry{running}, at).Availability)
	})

	t.Run("should report unavailable regardless of schedule", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		require.NoError(t, d.ChangeStatus(driver.OffDuty, now))
		require.NoError(t, v.ChangeStatus(vehicle.Maintenance, nil, now))

		assert.Equal(t, services.Unavailable, calc.Calculate(d, nil, at).Availability)
		assert.Equal(t, services.Unavailable, calc.Calculate(v, nil, at).Availability)
	})

	t.Run("should ignore past days, closed entries and other resources", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		yesterday := entryFor(t, d, v, slot(t, "2025-12-14", "09:00"))
		done := entryFor(t, d, v, slot(t, "2025-12-15", "09:00"))
		require.NoError(t, done.Transition(schedule.InProgress, now))
		require.NoError(t, done.Transition(schedule.Completed, now))
		canceled := entryFor(t, d, v, slot(t, "2025-12-15", "13:00"))
		require.NoError(t, canceled.Transition(schedule.Canceled, now))
		foreign := entryFor(t, newDriver(t, agency), newVehicle(t, agency), slot(t, "2025-12-15", "09:00"))

		report := calc.Calculate(d, []*schedule.Entry{yesterday, done, canceled, foreign}, at)

		assert.Equal(t, services.Available, report.Availability)
		assert.Nil(t, report.NextFreeAt)
	})

	t.Run("should break start ties by id and stay deterministic", func(t *testing.T) {
		d, v := newDriver(t, agency), newVehicle(t, agency)
		a := entryFor(t, d, v, slot(t, "2025-12-15", "09:00"))
		b := entryFor(t, d, v, slot(t, "2025-12-15", "09:00"))
		entries := []*schedule.Entry{a, b}

		first := calc.Calculate(d, entries, at)
		second := calc.Calculate(d, []*schedule.Entry{b, a}, at)

		assert.Equal(t, first, second)
		assert.Negative(t, first.Commitments[0].ID().Compare(first.Commitments[1].ID()))
	})
}

func TestAvailability_String(t *testing.T) {
	assert.Equal(t, "busy", services.Busy.String())
	assert.True(t, services.Unavailable.Blocks())
	assert.False(t, services.Assigned.Blocks())
}
