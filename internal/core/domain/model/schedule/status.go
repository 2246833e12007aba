package schedule

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the execution state of a schedule entry.
type Status int

const (
	Unknown Status = iota

	// Planned entries wait for their window.
	Planned

	// InProgress entries are being executed by their driver.
	InProgress

	// Completed entries are final.
	Completed

	// Delayed entries missed their start and wait to be started or rescheduled.
	Delayed

	// Canceled entries released their resources and are final.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Planned:    "planned",
		InProgress: "in_progress",
		Completed:  "completed",
		Delayed:    "delayed",
		Canceled:   "canceled",
	}
}

func transitions() map[Status]map[Status]struct{} {
	//nolint:exhaustive // completed and canceled are terminal
	return map[Status]map[Status]struct{}{
		Planned:    {InProgress: {}, Delayed: {}, Canceled: {}},
		Delayed:    {Planned: {}, InProgress: {}, Canceled: {}},
		InProgress: {Completed: {}, Canceled: {}},
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("schedule status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("schedule status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsActive reports whether the entry is planned or being executed.
func (s Status) IsActive() bool {
	return s == Planned || s == InProgress
}

// HoldsResources reports whether the entry blocks its driver and vehicle for
// its window.
func (s Status) HoldsResources() bool {
	return s.IsActive() || s == Delayed
}

// IsOpen reports whether the entry still counts as a commitment of its
// resources.
func (s Status) IsOpen() bool {
	return s != Completed && s != Canceled && s != Unknown
}

// IsReschedulable reports whether the entry may be moved to another window
// or other resources.
func (s Status) IsReschedulable() bool {
	return s == Planned || s == Delayed
}

func (s Status) IsTerminal() bool {
	return len(transitions()[s]) == 0
}

func (s Status) CanTransitionTo(to Status) bool {
	_, ok := transitions()[s][to]
	return ok
}

func (s Status) TransitionTo(to Status) (Status, error) {
	if !s.CanTransitionTo(to) {
		return s, errs.NewIllegalTransitionError("schedule entry", s.String(), to.String())
	}
	return to, nil
}
