// Package vehiclerepo maps vehicles to the vehicles table.
package vehiclerepo

import (
	"time"

	"dispatch/internal/adapters/out/postgres/gormrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	AgencyID            string    `gorm:"size:64;not null;index"`
	Name                string    `gorm:"size:200;not null"`
	PlateNumber         string    `gorm:"size:16;not null"`
	Capacity            int       `gorm:"not null"`
	Status              string    `gorm:"size:16;not null"`
	LastMaintenanceDate *time.Time
	NextMaintenanceDate *time.Time `gorm:"index"`
	CreatedAt           time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt           time.Time  `gorm:"not null;autoUpdateTime:false"`
}

func (VehicleDTO) TableName() string {
	return "vehicles"
}

// NewRepository returns the vehicle repository bound to db.
func NewRepository(db *gorm.DB, opts gormrepo.Options) ports.VehicleRepository {
	opts.Param = "vehicleId"
	return gormrepo.New(db, gormrepo.Mapper[*vehicle.Vehicle, VehicleDTO]{
		ToDTO:    fromDomain,
		ToDomain: toDomain,
	}, opts)
}

func fromDomain(v *vehicle.Vehicle) (VehicleDTO, error) {
	return VehicleDTO{
		ID:                  v.ID().Bytes(),
		AgencyID:            v.AgencyID().String(),
		Name:                v.Name(),
		PlateNumber:         v.PlateNumber(),
		Capacity:            v.Capacity(),
		Status:              v.Status().String(),
		LastMaintenanceDate: v.LastMaintenanceDate(),
		NextMaintenanceDate: v.NextMaintenanceDate(),
		CreatedAt:           v.CreatedAt(),
		UpdatedAt:           v.UpdatedAt(),
	}, nil
}

func toDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := vehicle.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return vehicle.RestoreVehicle(
		id,
		kernel.AgencyID(dto.AgencyID),
		vehicle.Spec{
			Name:        dto.Name,
			PlateNumber: dto.PlateNumber,
			Capacity:    dto.Capacity,
		},
		status,
		vehicle.MaintenancePlan{
			Last: dto.LastMaintenanceDate,
			Next: dto.NextMaintenanceDate,
		},
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
