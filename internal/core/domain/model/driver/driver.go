package driver

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	NameMaxLength    = 200
	LicenseMaxLength = 64
)

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("driver name")
	ErrPhoneIsRequired         = errs.NewValueIsRequiredError("driver phone")
	ErrLicenseNumberIsRequired = errs.NewValueIsRequiredError("licenseNumber")
	// ErrDriverIsNotConstructed is returned when using a Driver that did not
	// come from NewDriver or RestoreDriver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
)

// Profile is the part of a driver entered at onboarding.
type Profile struct {
	Name          string
	Phone         string
	LicenseNumber string
	HomeVehicle   *kernel.UUID
}

// Driver is a person who can be bound to orders through schedule entries.
//
// Business rules:
//   - name, phone and license number are required
//   - only on-duty drivers are operational
type Driver struct {
	id        kernel.UUID
	agencyID  kernel.AgencyID
	profile   Profile
	status    Status
	createdAt time.Time
	updatedAt time.Time
	guard     guard.ConstructorGuard
}

// NewDriver onboards a driver. New drivers start on-duty.
//
// Example:
//
//	d, err := driver.NewDriver(kernel.NewUUID(), "agency-1", driver.Profile{
//	    Name:          "Nurlan",
//	    Phone:         "+77010000001",
//	    LicenseNumber: "KZ-123456",
//	}, time.Now())
func NewDriver(id kernel.UUID, agencyID kernel.AgencyID, profile Profile, createdAt time.Time) (*Driver, error) {
	return RestoreDriver(id, agencyID, profile, OnDuty, createdAt, createdAt)
}

// RestoreDriver rebuilds a Driver from persisted state.
func RestoreDriver(
	id kernel.UUID,
	agencyID kernel.AgencyID,
	profile Profile,
	status Status,
	createdAt, updatedAt time.Time,
) (*Driver, error) {
	d := &Driver{
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setAgencyID(agencyID),
		d.setProfile(profile),
		d.setStatus(status),
	); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) AgencyID() kernel.AgencyID {
	return d.agencyID
}

func (d *Driver) Kind() kernel.ResourceKind {
	return kernel.ResourceDriver
}

func (d *Driver) Name() string {
	return d.profile.Name
}

func (d *Driver) Phone() string {
	return d.profile.Phone
}

func (d *Driver) LicenseNumber() string {
	return d.profile.LicenseNumber
}

// HomeVehicle returns the driver's default vehicle, or nil.
func (d *Driver) HomeVehicle() *kernel.UUID {
	return kernel.ClonePtr(d.profile.HomeVehicle)
}

func (d *Driver) Status() Status {
	return d.status
}

// IsOperational reports whether the driver can take work.
func (d *Driver) IsOperational() bool {
	return d.status == OnDuty
}

func (d *Driver) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Driver) UpdatedAt() time.Time {
	return d.updatedAt
}

// ChangeStatus puts the driver on or off duty. Setting the current status
// again is a no-op.
func (d *Driver) ChangeStatus(to Status, at time.Time) error {
	if err := errors.Join(d.Validate(), to.Validate()); err != nil {
		return err
	}
	if d.status == to {
		return nil
	}
	d.status = to
	d.updatedAt = at
	return nil
}

// AssignHomeVehicle sets or clears (nil) the default vehicle.
func (d *Driver) AssignHomeVehicle(vehicleID *kernel.UUID, at time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if vehicleID != nil {
		if err := vehicleID.Validate(); err != nil {
			return err
		}
	}
	d.profile.HomeVehicle = kernel.ClonePtr(vehicleID)
	d.updatedAt = at
	return nil
}

func (d *Driver) Touch(at time.Time) {
	d.updatedAt = at
}

func (d *Driver) Clone() *Driver {
	c := *d
	c.profile.HomeVehicle = kernel.ClonePtr(d.profile.HomeVehicle)
	return &c
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setAgencyID(agencyID kernel.AgencyID) error {
	if err := agencyID.Validate(); err != nil {
		return err
	}
	d.agencyID = agencyID
	return nil
}

func (d *Driver) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}

func (d *Driver) setProfile(p Profile) error {
	var err error

	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		err = errors.Join(err, ErrNameIsRequired)
	case len(p.Name) > NameMaxLength:
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("driver name length", len(p.Name), 1, NameMaxLength))
	}

	p.Phone = strings.TrimSpace(p.Phone)
	if p.Phone == "" {
		err = errors.Join(err, ErrPhoneIsRequired)
	}

	p.LicenseNumber = strings.TrimSpace(p.LicenseNumber)
	switch {
	case p.LicenseNumber == "":
		err = errors.Join(err, ErrLicenseNumberIsRequired)
	case len(p.LicenseNumber) > LicenseMaxLength:
		err = errors.Join(err, errs.NewValueIsOutOfRangeError(
			"licenseNumber length", len(p.LicenseNumber), 1, LicenseMaxLength))
	}

	if p.HomeVehicle != nil {
		err = errors.Join(err, p.HomeVehicle.Validate())
	}

	if err != nil {
		return err
	}

	p.HomeVehicle = kernel.ClonePtr(p.HomeVehicle)
	d.profile = p
	return nil
}
