package commands

import (
	"time"
)

const (
	DefaultRetryDelay   = 50 * time.Millisecond
	DefaultSlotDuration = 2 * time.Hour
)

// Settings carries what handlers need besides their unit of work.
type Settings struct {
	// Now stamps every change. Tests pin it.
	Now func() time.Time
	// RetryDelay is the pause before the single retry of a failed store call.
	RetryDelay time.Duration
	// SlotDuration is the window length used when an assignment names none.
	SlotDuration time.Duration
	// Location interprets the "YYYY-MM-DD" and "HH:MM" of an assignment.
	Location *time.Location
}

func DefaultSettings() Settings {
	return Settings{
		Now:          time.Now,
		RetryDelay:   DefaultRetryDelay,
		SlotDuration: DefaultSlotDuration,
		Location:     time.UTC,
	}
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s Settings) slotDuration() time.Duration {
	if s.SlotDuration <= 0 {
		return DefaultSlotDuration
	}
	return s.SlotDuration
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
