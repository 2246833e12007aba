package vehicle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	NameMaxLength  = 200
	PlateMaxLength = 16
	MaxCapacity    = 100_000
)

var (
	ErrNameIsRequired  = errs.NewValueIsRequiredError("vehicle name")
	ErrPlateIsRequired = errs.NewValueIsRequiredError("plateNumber")
	// ErrMaintenanceOrder is the cause reported when the next maintenance date
	// precedes the last one.
	ErrMaintenanceOrder = errors.New("nextMaintenanceDate must not be before lastMaintenanceDate")
	// ErrVehicleIsNotConstructed is returned when using a Vehicle that did not
	// come from NewVehicle or RestoreVehicle.
	ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")
)

// Spec is the registration data of a vehicle.
type Spec struct {
	Name        string
	PlateNumber string
	// Capacity is the cargo volume in cubic meters.
	Capacity int
}

// MaintenancePlan holds the calendar dates of the last and next service.
// Both are optional; when both are set next must not precede last.
type MaintenancePlan struct {
	Last *time.Time
	Next *time.Time
}

// Vehicle is a fleet unit that can be bound to orders through schedule entries.
type Vehicle struct {
	id          kernel.UUID
	agencyID    kernel.AgencyID
	spec        Spec
	status      Status
	maintenance MaintenancePlan
	createdAt   time.Time
	updatedAt   time.Time
	guard       guard.ConstructorGuard
}

// NewVehicle registers an active vehicle.
func NewVehicle(
	id kernel.UUID,
	agencyID kernel.AgencyID,
	spec Spec,
	plan MaintenancePlan,
	createdAt time.Time,
) (*Vehicle, error) {
	return RestoreVehicle(id, agencyID, spec, Active, plan, createdAt, createdAt)
}

// RestoreVehicle rebuilds a Vehicle from persisted state.
func RestoreVehicle(
	id kernel.UUID,
	agencyID kernel.AgencyID,
	spec Spec,
	status Status,
	plan MaintenancePlan,
	createdAt, updatedAt time.Time,
) (*Vehicle, error) {
	v := &Vehicle{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setAgencyID(agencyID),
		v.setSpec(spec),
		v.setStatus(status),
		v.setMaintenance(plan),
	); err != nil {
		return nil, err
	}

	return v, nil
}

func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v *Vehicle) IsEqual(other *Vehicle) bool {
	return other != nil && v.id.IsEqual(other.id)
}

func (v *Vehicle) ID() kernel.UUID {
	return v.id
}

func (v *Vehicle) AgencyID() kernel.AgencyID {
	return v.agencyID
}

func (v *Vehicle) Kind() kernel.ResourceKind {
	return kernel.ResourceVehicle
}

func (v *Vehicle) Name() string {
	return v.spec.Name
}

func (v *Vehicle) PlateNumber() string {
	return v.spec.PlateNumber
}

func (v *Vehicle) Capacity() int {
	return v.spec.Capacity
}

func (v *Vehicle) Status() Status {
	return v.status
}

func (v *Vehicle) LastMaintenanceDate() *time.Time {
	return kernel.ClonePtr(v.maintenance.Last)
}

func (v *Vehicle) NextMaintenanceDate() *time.Time {
	return kernel.ClonePtr(v.maintenance.Next)
}

// IsOperational reports whether the vehicle can be assigned.
func (v *Vehicle) IsOperational() bool {
	return v.status == Active
}

// IsMaintenanceDue reports whether an active vehicle reached its next
// maintenance date on the calendar day of at.
func (v *Vehicle) IsMaintenanceDue(at time.Time) bool {
	if v.status != Active || v.maintenance.Next == nil {
		return false
	}
	return !v.maintenance.Next.After(kernel.StartOfDay(at))
}

func (v *Vehicle) CreatedAt() time.Time {
	return v.createdAt
}

func (v *Vehicle) UpdatedAt() time.Time {
	return v.updatedAt
}

// ChangeStatus moves the vehicle between active and maintenance. A non-nil
// plan replaces the maintenance dates in the same step, so returning from
// maintenance can record the service that was just done.
func (v *Vehicle) ChangeStatus(to Status, plan *MaintenancePlan, at time.Time) error {
	if err := errors.Join(v.Validate(), to.Validate()); err != nil {
		return err
	}

	if plan != nil {
		if err := v.setMaintenance(*plan); err != nil {
			return err
		}
	}

	v.status = to
	v.updatedAt = at
	return nil
}

func (v *Vehicle) Touch(at time.Time) {
	v.updatedAt = at
}

func (v *Vehicle) Clone() *Vehicle {
	c := *v
	c.maintenance = MaintenancePlan{
		Last: kernel.ClonePtr(v.maintenance.Last),
		Next: kernel.ClonePtr(v.maintenance.Next),
	}
	return &c
}

func (v *Vehicle) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *Vehicle) setAgencyID(agencyID kernel.AgencyID) error {
	if err := agencyID.Validate(); err != nil {
		return err
	}
	v.agencyID = agencyID
	return nil
}

func (v *Vehicle) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	v.status = status
	return nil
}

func (v *Vehicle) setSpec(s Spec) error {
	var err error

	s.Name = strings.TrimSpace(s.Name)
	switch {
	case s.Name == "":
		err = errors.Join(err, ErrNameIsRequired)
	case len(s.Name) > NameMaxLength:
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("vehicle name length", len(s.Name), 1, NameMaxLength))
	}

	s.PlateNumber = strings.ToUpper(strings.TrimSpace(s.PlateNumber))
	switch {
	case s.PlateNumber == "":
		err = errors.Join(err, ErrPlateIsRequired)
	case len(s.PlateNumber) > PlateMaxLength:
		err = errors.Join(err, errs.NewValueIsOutOfRangeError(
			"plateNumber length", len(s.PlateNumber), 1, PlateMaxLength))
	}

	if s.Capacity <= 0 || s.Capacity > MaxCapacity {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("capacity", s.Capacity, 1, MaxCapacity))
	}

	if err != nil {
		return err
	}

	v.spec = s
	return nil
}

func (v *Vehicle) setMaintenance(p MaintenancePlan) error {
	var last, next *time.Time
	if p.Last != nil {
		d := kernel.StartOfDay(*p.Last)
		last = &d
	}
	if p.Next != nil {
		d := kernel.StartOfDay(*p.Next)
		next = &d
	}
	if last != nil && next != nil && next.Before(*last) {
		return errs.NewValueIsInvalidErrorWithCause(
			"nextMaintenanceDate",
			fmt.Errorf("%w: %s < %s", ErrMaintenanceOrder, next.Format(kernel.DateLayout), last.Format(kernel.DateLayout)),
		)
	}
	v.maintenance = MaintenancePlan{Last: last, Next: next}
	return nil
}
