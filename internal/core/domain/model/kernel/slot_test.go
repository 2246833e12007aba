package kernel_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(t *testing.T, date, clock string, d time.Duration) kernel.Slot {
	t.Helper()
	s, err := kernel.NewSlot(date, clock, d, time.UTC)
	require.NoError(t, err)
	return s
}

func TestNewSlot(t *testing.T) {
	t.Run("should parse date and time", func(t *testing.T) {
		s := mustSlot(t, "2025-12-15", "09:00", 2*time.Hour)

		assert.Equal(t, time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC), s.Start())
		assert.Equal(t, time.Date(2025, 12, 15, 11, 0, 0, 0, time.UTC), s.End())
		assert.Equal(t, "2025-12-15", s.Date())
		assert.Equal(t, "09:00", s.Clock())
		require.NoError(t, s.Validate())
	})

	t.Run("should default to UTC", func(t *testing.T) {
		s, err := kernel.NewSlot("2025-12-15", "09:00", time.Hour, nil)

		require.NoError(t, err)
		assert.Equal(t, time.UTC, s.Start().Location())
	})

	testCases := []struct {
		name     string
		date     string
		clock    string
		duration time.Duration
	}{
		{"bad date", "15.12.2025", "09:00", time.Hour},
		{"bad clock", "2025-12-15", "9am", time.Hour},
		{"zero duration", "2025-12-15", "09:00", 0},
		{"too long", "2025-12-15", "09:00", 25 * time.Hour},
	}
	for _, tc := range testCases {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			_, err := kernel.NewSlot(tc.date, tc.clock, tc.duration, time.UTC)

			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
		})
	}

	t.Run("zero value is not constructed", func(t *testing.T) {
		var s kernel.Slot
		require.ErrorIs(t, s.Validate(), kernel.ErrSlotIsNotConstructed)
	})
}

func TestSlot_Overlaps(t *testing.T) {
	base := mustSlot(t, "2025-12-15", "09:00", 2*time.Hour)

	testCases := []struct {
		name  string
		other kernel.Slot
		want  bool
	}{
		{"same window", mustSlot(t, "2025-12-15", "09:00", 2*time.Hour), true},
		{"starts inside", mustSlot(t, "2025-12-15", "10:30", time.Hour), true},
		{"contains", mustSlot(t, "2025-12-15", "08:00", 4*time.Hour), true},
		{"touches end", mustSlot(t, "2025-12-15", "11:00", time.Hour), false},
		{"touches start", mustSlot(t, "2025-12-15", "08:00", time.Hour), false},
		{"other day", mustSlot(t, "2025-12-16", "09:00", 2*time.Hour), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := base.Overlaps(tc.other)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			reverse, err := tc.other.Overlaps(base)
			require.NoError(t, err)
			assert.Equal(t, tc.want, reverse)
		})
	}

	t.Run("should fail on zero value", func(t *testing.T) {
		_, err := base.Overlaps(kernel.Slot{})
		require.Error(t, err)
	})
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2025, 12, 15, 17, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC), kernel.StartOfDay(at))
}
