package kernel

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// DateLayout is the wire format of a calendar date.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format of a time of day.
	ClockLayout = "15:04"

	MaxSlotDuration = 24 * time.Hour
)

var ErrSlotIsNotConstructed = errs.NewValueIsRequiredError("slot must be created via NewSlot or NewSlotAt")

// Slot is the half-open window [start, start+duration) a job occupies.
// Two slots overlap when each one starts before the other ends, so a slot
// ending at 11:00 does not overlap one starting at 11:00.
type Slot struct { //nolint:recvcheck //using for validation
	start    time.Time
	duration time.Duration
	guard    guard.ConstructorGuard
}

// NewSlot parses a "YYYY-MM-DD" date and an "HH:MM" time in loc (UTC when nil).
//
// Example:
//
//	slot, err := kernel.NewSlot("2025-12-15", "09:00", 2*time.Hour, time.UTC)
//	// slot.End() == 2025-12-15 11:00 UTC
func NewSlot(date, clock string, duration time.Duration, loc *time.Location) (Slot, error) {
	if loc == nil {
		loc = time.UTC
	}

	start, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
	if err != nil {
		return Slot{}, errs.NewValueIsInvalidErrorWithCause(
			"slot",
			fmt.Errorf("date %q and time %q must match %s %s", date, clock, DateLayout, ClockLayout),
		)
	}

	return NewSlotAt(start, duration)
}

// NewSlotAt builds a slot from an instant, truncated to the minute.
func NewSlotAt(start time.Time, duration time.Duration) (Slot, error) {
	if start.IsZero() {
		return Slot{}, errs.NewValueIsRequiredError("slot start")
	}
	if duration <= 0 || duration > MaxSlotDuration {
		return Slot{}, errs.NewValueIsOutOfRangeError("slot duration", duration, time.Minute, MaxSlotDuration)
	}

	return Slot{
		start:    start.Truncate(time.Minute),
		duration: duration,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (s Slot) Validate() error {
	return s.guard.Validate(ErrSlotIsNotConstructed)
}

func (s Slot) Start() time.Time {
	return s.start
}

func (s Slot) End() time.Time {
	return s.start.Add(s.duration)
}

func (s Slot) Duration() time.Duration {
	return s.duration
}

// Date returns the calendar date of the slot start.
func (s Slot) Date() string {
	return s.start.Format(DateLayout)
}

// Clock returns the time of day of the slot start.
func (s Slot) Clock() string {
	return s.start.Format(ClockLayout)
}

// Overlaps reports whether both windows share at least one instant.
func (s Slot) Overlaps(other Slot) (bool, error) {
	if err := errors.Join(s.Validate(), other.Validate()); err != nil {
		return false, err
	}
	return s.start.Before(other.End()) && other.start.Before(s.End()), nil
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s (%s)", s.Date(), s.Clock(), s.duration)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
