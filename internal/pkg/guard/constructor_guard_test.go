package guard_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("should accept any error when constructed", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("should return given error for zero value", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("slot not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("should return default error for zero value without error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	errPlateNotConstructed := errors.New("plate must be created via newPlate")

	type plate struct {
		value string
		guard guard.ConstructorGuard
	}

	newPlate := func(value string) (plate, error) {
		if value == "" {
			return plate{}, errors.New("plate is required")
		}
		return plate{value: value, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("should validate plate built by constructor", func(t *testing.T) {
		p, err := newPlate("KZ 123 ABC")

		require.NoError(t, err)
		require.NoError(t, p.guard.Validate(errPlateNotConstructed))
	})

	t.Run("should reject struct literal", func(t *testing.T) {
		p := plate{value: "KZ 123 ABC"}

		assert.Equal(t, errPlateNotConstructed, p.guard.Validate(errPlateNotConstructed))
	})
}
