package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(agency, kernel.NewUUID(), order.Unknown, "")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestTransitionOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should mirror start and completion onto the entry", func(t *testing.T) {
		h := newHarness(t)
		o := h.createOrder()
		d, v := h.registerDriver("Nurlan"), h.registerVehicle("777ABC02")
		_, err := h.assign(o, d, v, "2025-12-15", "09:00")
		require.NoError(t, err)
		_, err = h.transition(o, order.Confirmed, "")
		require.NoError(t, err)

		started, err := h.transition(o, order.InProgress, "")
		require.NoError(t, err)
		require.NotNil(t, started.Entry)
		assert.Equal(t, schedule.InProgress, started.Entry.Status())

		completed, err := h.transition(o, order.Completed, "")
		require.NoError(t, err)
		assert.Equal(t, order.Completed, completed.Order.Status())
		assert.Equal(t, schedule.Completed, completed.Entry.Status())

		stored, err := h.factory.Create().ScheduleRepository().Get(h.ctx, completed.Entry.ID())
		require.NoError(t, err)
		assert.Equal(t, schedule.Completed, stored.Status())
		assert.Equal(t, []string{"confirmed", "in_progress", "completed"}, h.observer.transitions)
	})

	t.Run("should release resources on cancel", func(t *testing.T) {
		h := newHarness(t)
		first, second := h.createOrder(), h.createOrder()
		d, v := h.registerDriver("Nurlan"), h.registerVehicle("777ABC02")
		_, err := h.assign(first, d, v, "2025-12-15", "09:00")
		require.NoError(t, err)

		canceled, err := h.transition(first, order.Canceled, "customer moved date")

		require.NoError(t, err)
		assert.Equal(t, "customer moved date", canceled.Order.CancelReason())
		assert.Equal(t, schedule.Canceled, canceled.Entry.Status())

		_, err = h.assign(second, d, v, "2025-12-15", "09:00")
		require.NoError(t, err)
	})

	t.Run("should require resources before starting", func(t *testing.T) {
		h := newHarness(t)
		o := h.createOrder()
		_, err := h.transition(o, order.Confirmed, "")
		require.NoError(t, err)

		_, err = h.transition(o, order.InProgress, "")

		require.ErrorIs(t, err, errs.ErrPreconditionFailed)
		stored, err := h.factory.Create().OrderRepository().Get(h.ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, stored.Status())
	})

	t.Run("should refuse moves outside the table", func(t *testing.T) {
		h := newHarness(t)
		o := h.createOrder()

		_, err := h.transition(o, order.Completed, "")

		require.ErrorIs(t, err, errs.ErrIllegalTransition)
		assert.Empty(t, h.observer.transitions)
	})

	t.Run("should transition orders without an entry", func(t *testing.T) {
		h := newHarness(t)
		o := h.createOrder()

		result, err := h.transition(o, order.Canceled, "")

		require.NoError(t, err)
		assert.Nil(t, result.Entry)
		assert.Equal(t, order.Canceled, result.Order.Status())
	})
}

func TestRecordPaymentCommandHandler_Handle(t *testing.T) {
	h := newHarness(t)
	o := h.createOrder()
	handler := commands.NewRecordPaymentCommandHandler(h.uow(), h.settings)

	pay := func(s order.PaymentStatus) (*order.CustomerOrder, error) {
		cmd, err := commands.NewRecordPaymentCommand(agency, o.ID(), s)
		require.NoError(t, err)
		return handler.Handle(h.ctx, cmd)
	}

	paid, err := pay(order.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentPaid, paid.PaymentStatus())

	_, err = pay(order.PaymentPending)
	require.ErrorIs(t, err, errs.ErrIllegalTransition)

	refunded, err := pay(order.PaymentRefunded)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentRefunded, refunded.PaymentStatus())
}
