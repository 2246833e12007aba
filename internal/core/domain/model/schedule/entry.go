package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

const (
	// DefaultJobType is used when an assignment does not name one.
	DefaultJobType   = "moving"
	JobTypeMaxLength = 64
)

// ErrEntryIsNotConstructed is returned when an Entry did not come from
// NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Binding is what an entry ties together: the window and both resources.
type Binding struct {
	Slot      kernel.Slot
	DriverID  kernel.UUID
	VehicleID kernel.UUID
}

// Job describes the work to be done in the window.
type Job struct {
	Type     string
	Pickup   kernel.Address
	Delivery kernel.Address
}

// Snapshot is the complete persisted state of an entry.
type Snapshot struct {
	ID         kernel.UUID
	AgencyID   kernel.AgencyID
	OrderRef   kernel.UUID
	Binding    Binding
	Job        Job
	Status     Status
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
	UpdatedAt  time.Time
}

// Entry binds one order to a driver, a vehicle and a window.
type Entry struct {
	id         kernel.UUID
	agencyID   kernel.AgencyID
	orderRef   kernel.UUID
	binding    Binding
	job        Job
	status     Status
	createdAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time
	updatedAt  time.Time

	isConstructed bool
}

// NewEntry creates a planned entry.
func NewEntry(
	id kernel.UUID,
	agencyID kernel.AgencyID,
	orderRef kernel.UUID,
	binding Binding,
	job Job,
	createdAt time.Time,
) (*Entry, error) {
	return RestoreEntry(Snapshot{
		ID:        id,
		AgencyID:  agencyID,
		OrderRef:  orderRef,
		Binding:   binding,
		Job:       job,
		Status:    Planned,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})
}

// RestoreEntry rebuilds an entry from persisted state.
func RestoreEntry(s Snapshot) (*Entry, error) {
	e := &Entry{
		status:        s.Status,
		createdAt:     s.CreatedAt,
		startedAt:     kernel.ClonePtr(s.StartedAt),
		finishedAt:    kernel.ClonePtr(s.FinishedAt),
		updatedAt:     s.UpdatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		e.setID(s.ID),
		e.setAgencyID(s.AgencyID),
		e.setOrderRef(s.OrderRef),
		e.setBinding(s.Binding),
		e.setJob(s.Job),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e *Entry) ID() kernel.UUID {
	return e.id
}

func (e *Entry) AgencyID() kernel.AgencyID {
	return e.agencyID
}

func (e *Entry) OrderRef() kernel.UUID {
	return e.orderRef
}

func (e *Entry) Slot() kernel.Slot {
	return e.binding.Slot
}

// Date returns the "YYYY-MM-DD" day of the window start.
func (e *Entry) Date() string {
	return e.binding.Slot.Date()
}

// Time returns the "HH:MM" time of the window start.
func (e *Entry) Time() string {
	return e.binding.Slot.Clock()
}

func (e *Entry) Driver() kernel.UUID {
	return e.binding.DriverID
}

func (e *Entry) Vehicle() kernel.UUID {
	return e.binding.VehicleID
}

func (e *Entry) JobType() string {
	return e.job.Type
}

func (e *Entry) PickupAddress() kernel.Address {
	return e.job.Pickup
}

func (e *Entry) DeliveryAddress() kernel.Address {
	return e.job.Delivery
}

func (e *Entry) Status() Status {
	return e.status
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Entry) StartedAt() *time.Time {
	return kernel.ClonePtr(e.startedAt)
}

func (e *Entry) FinishedAt() *time.Time {
	return kernel.ClonePtr(e.finishedAt)
}

func (e *Entry) UpdatedAt() time.Time {
	return e.updatedAt
}

// Binds reports whether the entry references the resource.
func (e *Entry) Binds(kind kernel.ResourceKind, id kernel.UUID) bool {
	switch kind {
	case kernel.ResourceDriver:
		return e.binding.DriverID.IsEqual(id)
	case kernel.ResourceVehicle:
		return e.binding.VehicleID.IsEqual(id)
	default:
		return false
	}
}

// Conflicts reports whether the entry holds the resource during any part of
// slot. A delayed entry keeps its window until it is started, rescheduled or
// canceled.
func (e *Entry) Conflicts(kind kernel.ResourceKind, id kernel.UUID, slot kernel.Slot) (bool, error) {
	if !e.status.HoldsResources() || !e.Binds(kind, id) {
		return false, nil
	}
	return e.binding.Slot.Overlaps(slot)
}

func (e *Entry) Snapshot() Snapshot {
	return Snapshot{
		ID:         e.id,
		AgencyID:   e.agencyID,
		OrderRef:   e.orderRef,
		Binding:    e.binding,
		Job:        e.job,
		Status:     e.status,
		CreatedAt:  e.createdAt,
		StartedAt:  kernel.ClonePtr(e.startedAt),
		FinishedAt: kernel.ClonePtr(e.finishedAt),
		UpdatedAt:  e.updatedAt,
	}
}

func (e *Entry) Touch(at time.Time) {
	e.updatedAt = at
}

func (e *Entry) Clone() *Entry {
	c := *e
	c.startedAt = kernel.ClonePtr(e.startedAt)
	c.finishedAt = kernel.ClonePtr(e.finishedAt)
	return &c
}

// Reschedule moves a planned or delayed entry to a new binding. The entry
// becomes planned again.
func (e *Entry) Reschedule(binding Binding, at time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if !e.status.IsReschedulable() {
		return errs.NewPreconditionFailedError(
			"schedule entry status",
			fmt.Errorf("a %s entry cannot be rescheduled", e.status),
		)
	}
	if err := e.setBinding(binding); err != nil {
		return err
	}
	e.status = Planned
	e.updatedAt = at
	return nil
}

// Transition moves the entry through its state machine and stamps the start
// and finish instants.
func (e *Entry) Transition(to Status, at time.Time) error {
	if err := e.Validate(); err != nil {
		return err
	}
	next, err := e.status.TransitionTo(to)
	if err != nil {
		return err
	}

	e.status = next
	switch next {
	case InProgress:
		e.startedAt = &at
	case Completed, Canceled:
		e.finishedAt = &at
	case Unknown, Planned, Delayed:
	}
	e.updatedAt = at
	return nil
}

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Entry) setAgencyID(agencyID kernel.AgencyID) error {
	if err := agencyID.Validate(); err != nil {
		return err
	}
	e.agencyID = agencyID
	return nil
}

func (e *Entry) setOrderRef(orderRef kernel.UUID) error {
	if err := orderRef.Validate(); err != nil {
		return err
	}
	e.orderRef = orderRef
	return nil
}

func (e *Entry) setBinding(b Binding) error {
	if err := errors.Join(
		b.Slot.Validate(),
		b.DriverID.Validate(),
		b.VehicleID.Validate(),
	); err != nil {
		return err
	}
	e.binding = b
	return nil
}

func (e *Entry) setJob(j Job) error {
	j.Type = strings.TrimSpace(j.Type)
	if j.Type == "" {
		j.Type = DefaultJobType
	}

	var err error
	if len(j.Type) > JobTypeMaxLength {
		err = errs.NewValueIsOutOfRangeError("jobType length", len(j.Type), 1, JobTypeMaxLength)
	}
	if err = errors.Join(err, j.Pickup.Validate(), j.Delivery.Validate()); err != nil {
		return err
	}
	e.job = j
	return nil
}
