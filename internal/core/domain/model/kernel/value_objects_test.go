package kernel_test

import (
	"strings"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("should trim and keep value", func(t *testing.T) {
		a, err := kernel.NewAddress("  12 Abay Ave, Almaty ")

		require.NoError(t, err)
		assert.Equal(t, "12 Abay Ave, Almaty", a.String())
		require.NoError(t, a.Validate())
	})

	t.Run("should reject blank address", func(t *testing.T) {
		_, err := kernel.NewAddress("   ")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject overlong address", func(t *testing.T) {
		_, err := kernel.NewAddress(strings.Repeat("a", kernel.AddressMaxLength+1))
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		require.Error(t, kernel.Address{}.Validate())
	})
}

func TestNewContact(t *testing.T) {
	t.Run("should accept valid contact", func(t *testing.T) {
		c, err := kernel.NewContact(" Aruzhan ", "+77010000000", "aru@example.kz")

		require.NoError(t, err)
		assert.Equal(t, "Aruzhan", c.Name())
		assert.Equal(t, "+77010000000", c.Phone())
		assert.Equal(t, "aru@example.kz", c.Email())
	})

	t.Run("should report every missing field", func(t *testing.T) {
		_, err := kernel.NewContact("", "", "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "customer name")
		assert.Contains(t, err.Error(), "customer phone")
		assert.Contains(t, err.Error(), "customer email")
	})

	t.Run("should reject malformed email", func(t *testing.T) {
		_, err := kernel.NewContact("A", "1", "Aru <aru@example.kz>")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestValidateAmount(t *testing.T) {
	require.NoError(t, kernel.ValidateAmount("price", decimal.NewFromInt(150000)))
	require.NoError(t, kernel.ValidateAmount("price", decimal.RequireFromString("10.25")))
	require.ErrorIs(t, kernel.ValidateAmount("price", decimal.NewFromInt(-1)), errs.ErrValueIsInvalid)
	require.ErrorIs(t, kernel.ValidateAmount("price", decimal.RequireFromString("1.005")), errs.ErrValueIsInvalid)
}

type testEvent struct {
	id kernel.UUID
}

func (e testEvent) EventName() string { return "test.happened" }

func (e testEvent) AggregateID() kernel.UUID { return e.id }

func (e testEvent) OccurredAt() time.Time { return time.Time{} }

func TestEventRecorder(t *testing.T) {
	var r kernel.EventRecorder
	id := kernel.NewUUID()

	r.Record(testEvent{id: id})
	events := r.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].AggregateID())

	r.ClearDomainEvents()
	assert.Empty(t, r.DomainEvents())
	assert.Len(t, events, 1)
}

func TestResourceKind_LockKey(t *testing.T) {
	id, _ := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")
	assert.Equal(t, "driver:550e8400-e29b-41d4-a716-446655440000", kernel.ResourceDriver.LockKey(id))
}

func TestNewAgencyID(t *testing.T) {
	id, err := kernel.NewAgencyID(" agency-1 ")
	require.NoError(t, err)
	assert.Equal(t, kernel.AgencyID("agency-1"), id)

	_, err = kernel.NewAgencyID("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	require.Error(t, kernel.AgencyID("").Validate())
}

func TestClonePtr(t *testing.T) {
	assert.Nil(t, kernel.ClonePtr[int](nil))

	v := 5
	c := kernel.ClonePtr(&v)
	*c = 6
	assert.Equal(t, 5, v)
}
