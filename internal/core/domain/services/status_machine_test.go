package services_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMachine_TransitionOrder(t *testing.T) {
	machine := services.NewStatusMachine()
	engine := services.NewAssignmentEngine(services.NewAvailabilityCalculator())

	assigned := func(t *testing.T) (*order.CustomerOrder, *schedule.Entry) {
		t.Helper()
		o := newOrder(t)
		result, err := engine.Assign(services.Assignment{
			Order:      o,
			Driver:     newDriver(t, agency),
			Vehicle:    newVehicle(t, agency),
			Slot:       slot(t, "2025-12-15", "09:00"),
			NewEntryID: kernel.NewUUID(),
			At:         now,
		})
		require.NoError(t, err)
		return o, result.Entry
	}

	t.Run("should mirror execution onto the schedule entry", func(t *testing.T) {
		o, entry := assigned(t)

		require.NoError(t, machine.TransitionOrder(o, entry, order.Confirmed, order.TransitionMetadata{}, now))
		assert.Equal(t, schedule.Planned, entry.Status())

		require.NoError(t, machine.TransitionOrder(o, entry, order.InProgress, order.TransitionMetadata{}, now))
		assert.Equal(t, schedule.InProgress, entry.Status())

		require.NoError(t, machine.TransitionOrder(o, entry, order.Completed, order.TransitionMetadata{}, now))
		assert.Equal(t, schedule.Completed, entry.Status())
		assert.Equal(t, order.Completed, o.Status())
	})

	t.Run("should release the entry on cancel", func(t *testing.T) {
		o, entry := assigned(t)

		require.NoError(t, machine.TransitionOrder(o, entry, order.Canceled, order.TransitionMetadata{Reason: "rain"}, now))

		assert.Equal(t, schedule.Canceled, entry.Status())
		assert.Equal(t, "rain", o.CancelReason())
	})

	t.Run("should refuse to start before assignment", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, machine.TransitionOrder(o, nil, order.Confirmed, order.TransitionMetadata{}, now))

		err := machine.TransitionOrder(o, nil, order.InProgress, order.TransitionMetadata{}, now)

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		assert.Equal(t, order.Confirmed, o.Status())
	})

	t.Run("should refuse to cancel a completed order", func(t *testing.T) {
		o, entry := assigned(t)
		for _, to := range []order.Status{order.Confirmed, order.InProgress, order.Completed} {
			require.NoError(t, machine.TransitionOrder(o, entry, to, order.TransitionMetadata{}, now))
		}

		err := machine.TransitionOrder(o, entry, order.Canceled, order.TransitionMetadata{}, now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, order.Completed, o.Status())
		assert.Equal(t, schedule.Completed, entry.Status())
	})

	t.Run("should leave the order untouched when the entry cannot follow", func(t *testing.T) {
		o, entry := assigned(t)
		require.NoError(t, machine.TransitionOrder(o, entry, order.Confirmed, order.TransitionMetadata{}, now))
		require.NoError(t, entry.Transition(schedule.Canceled, now))

		err := machine.TransitionOrder(o, entry, order.InProgress, order.TransitionMetadata{}, now)

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Equal(t, order.Confirmed, o.Status())
	})
}
