package services

import (
	"slices"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/schedule"
)

// Availability is the derived state of a driver or vehicle at an instant.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	// Available resources have no open commitment from the reference day on.
	Available
	// Assigned resources have future commitments but are not working now.
	Assigned
	// Busy resources are executing an entry.
	Busy
	// Unavailable resources are off-duty or in maintenance.
	Unavailable
)

func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Assigned:
		return "assigned"
	case Busy:
		return "busy"
	case Unavailable:
		return "unavailable"
	case AvailabilityUnknown:
	}
	return "unknown"
}

// Blocks reports whether a new assignment must be refused.
func (a Availability) Blocks() bool {
	return a == Busy || a == Unavailable
}

// Resource is a driver or a vehicle seen by the availability rules.
type Resource interface {
	ID() kernel.UUID
	Kind() kernel.ResourceKind
	IsOperational() bool
}

// AvailabilityReport is the projection computed for one resource.
type AvailabilityReport struct {
	Kind         kernel.ResourceKind
	ResourceID   kernel.UUID
	At           time.Time
	Availability Availability
	// NextFreeAt is nil when the resource is free immediately.
	NextFreeAt *time.Time
	// Commitments are the collected entries ordered by start, then id.
	Commitments []*schedule.Entry
}

// AvailabilityCalculator derives availability from schedule entries. It keeps
// no state; the same input always yields the same report.
//
// Rules, for a resource r and an instant at:
//  1. collect entries binding r, starting on the day of at or later, that are
//     neither completed nor canceled
//  2. r off-duty or in maintenance ⇒ Unavailable
//  3. any collected entry in progress ⇒ Busy
//  4. any collected entry ⇒ Assigned
//  5. otherwise Available
//
// The next free instant is the end of the last collected planned entry. When
// nothing planned was collected it is the end of the last collected entry,
// and nil when nothing was collected.
type AvailabilityCalculator struct{}

func NewAvailabilityCalculator() AvailabilityCalculator {
	return AvailabilityCalculator{}
}

// Calculate builds the availability report of resource at the given instant.
// Entries not binding the resource are ignored, so callers may pass a whole
// agency schedule.
func (AvailabilityCalculator) Calculate(resource Resource, entries []*schedule.Entry, at time.Time) AvailabilityReport {
	report := AvailabilityReport{
		Kind:       resource.Kind(),
		ResourceID: resource.ID(),
		At:         at,
	}

	report.Commitments = collectCommitments(resource, entries, at)

	switch {
	case !resource.IsOperational():
		report.Availability = Unavailable
	case slices.ContainsFunc(report.Commitments, func(e *schedule.Entry) bool {
		return e.Status() == schedule.InProgress
	}):
		report.Availability = Busy
	case len(report.Commitments) > 0:
		report.Availability = Assigned
	default:
		report.Availability = Available
	}

	report.NextFreeAt = nextFreeAt(report.Commitments)

	return report
}

func collectCommitments(resource Resource, entries []*schedule.Entry, at time.Time) []*schedule.Entry {
	var collected []*schedule.Entry
	for _, e := range entries {
		if e == nil || !e.Status().IsOpen() || !e.Binds(resource.Kind(), resource.ID()) {
			continue
		}
		start := e.Slot().Start()
		if start.Before(kernel.StartOfDay(at.In(start.Location()))) {
			continue
		}
		collected = append(collected, e)
	}

	slices.SortFunc(collected, compareEntries)
	return collected
}

// compareEntries orders by window start and breaks ties by id.
func compareEntries(a, b *schedule.Entry) int {
	if c := a.Slot().Start().Compare(b.Slot().Start()); c != 0 {
		return c
	}
	return a.ID().Compare(b.ID())
}

func nextFreeAt(sorted []*schedule.Entry) *time.Time {
	if len(sorted) == 0 {
		return nil
	}

	last := sorted[len(sorted)-1]
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Status() == schedule.Planned {
			last = sorted[i]
			break
		}
	}

	end := last.Slot().End()
	return &end
}
