package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create unique valid UUIDs", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		assert.False(t, id1.IsEqual(id2))
	})
}

func TestUUIDFromString(t *testing.T) {
	const canonical = "550e8400-e29b-41d4-a716-446655440000"

	for _, raw := range []string{
		canonical,
		"{550e8400-e29b-41d4-a716-446655440000}",
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
		"550e8400e29b41d4a716446655440000",
	} {
		t.Run("should parse "+raw, func(t *testing.T) {
			id, err := kernel.UUIDFromString(raw)

			require.NoError(t, err)
			assert.Equal(t, canonical, id.String())
		})
	}

	t.Run("should reject malformed input as validation error", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round trip through bytes", func(t *testing.T) {
		original := kernel.NewUUID()
		raw := original.Bytes()

		id, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, id.IsEqual(original))
	})

	t.Run("should reject wrong length and nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})
		require.Error(t, err)

		_, err = kernel.UUIDFromBytes(uuid.Nil[:])
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Compare(t *testing.T) {
	a, _ := kernel.UUIDFromString("00000000-0000-4000-8000-000000000001")
	b, _ := kernel.UUIDFromString("00000000-0000-4000-8000-000000000002")

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID
	require.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)
}

func TestOptionalUUIDFromString(t *testing.T) {
	t.Run("should return nil for empty input", func(t *testing.T) {
		id, err := kernel.OptionalUUIDFromString("")

		require.NoError(t, err)
		assert.Nil(t, id)
	})

	t.Run("should parse non-empty input", func(t *testing.T) {
		id, err := kernel.OptionalUUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		require.NotNil(t, id)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})
}
