// Package driverrepo maps drivers to the drivers table.
package driverrepo

import (
	"time"

	"dispatch/internal/adapters/out/postgres/gormrepo"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DriverDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AgencyID      string     `gorm:"size:64;not null;index"`
	Name          string     `gorm:"size:200;not null"`
	Phone         string     `gorm:"size:32;not null"`
	LicenseNumber string     `gorm:"size:64;not null"`
	HomeVehicleID *uuid.UUID `gorm:"type:uuid"`
	Status        string     `gorm:"size:16;not null"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime:false"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

// NewRepository returns the driver repository bound to db.
func NewRepository(db *gorm.DB, opts gormrepo.Options) ports.DriverRepository {
	opts.Param = "driverId"
	return gormrepo.New(db, gormrepo.Mapper[*driver.Driver, DriverDTO]{
		ToDTO:    fromDomain,
		ToDomain: toDomain,
	}, opts)
}

func fromDomain(d *driver.Driver) (DriverDTO, error) {
	var homeVehicle *uuid.UUID
	if id := d.HomeVehicle(); id != nil {
		raw := id.Bytes()
		homeVehicle = &raw
	}

	return DriverDTO{
		ID:            d.ID().Bytes(),
		AgencyID:      d.AgencyID().String(),
		Name:          d.Name(),
		Phone:         d.Phone(),
		LicenseNumber: d.LicenseNumber(),
		HomeVehicleID: homeVehicle,
		Status:        d.Status().String(),
		CreatedAt:     d.CreatedAt(),
		UpdatedAt:     d.UpdatedAt(),
	}, nil
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var homeVehicle *kernel.UUID
	if dto.HomeVehicleID != nil {
		vID, vErr := kernel.UUIDFromBytes((*dto.HomeVehicleID)[:])
		if vErr != nil {
			return nil, vErr
		}
		homeVehicle = &vID
	}

	status, err := driver.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(
		id,
		kernel.AgencyID(dto.AgencyID),
		driver.Profile{
			Name:          dto.Name,
			Phone:         dto.Phone,
			LicenseNumber: dto.LicenseNumber,
			HomeVehicle:   homeVehicle,
		},
		status,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
