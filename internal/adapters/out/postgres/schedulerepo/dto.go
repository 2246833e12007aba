// Package schedulerepo maps schedule entries to the schedule_entries table.
//
// The slot is stored both as its instant bounds, which range queries use,
// and as the local date and time plus the zone name, so an entry restored
// from the row renders the same "YYYY-MM-DD" and "HH:MM" it was booked with.
package schedulerepo

import (
	"fmt"
	"time"

	"dispatch/internal/adapters/out/postgres/gormrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EntryDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	AgencyID        string    `gorm:"size:64;not null;index"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	DriverID        uuid.UUID `gorm:"type:uuid;not null;index"`
	VehicleID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Date            string    `gorm:"size:10;not null"`
	Time            string    `gorm:"size:5;not null"`
	DurationMinutes int       `gorm:"not null"`
	TimeZone        string    `gorm:"size:64;not null"`
	StartsAt        time.Time `gorm:"not null;index"`
	EndsAt          time.Time `gorm:"not null"`
	JobType         string    `gorm:"size:64;not null"`
	PickupAddress   string    `gorm:"not null"`
	DeliveryAddress string    `gorm:"not null"`
	Status          string    `gorm:"size:16;not null;index"`
	StartedAt       *time.Time
	FinishedAt      *time.Time
	CreatedAt       time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (EntryDTO) TableName() string {
	return "schedule_entries"
}

// NewRepository returns the schedule repository bound to db.
func NewRepository(db *gorm.DB, opts gormrepo.Options) ports.ScheduleRepository {
	opts.Param = "scheduleEntryId"
	return gormrepo.New(db, gormrepo.Mapper[*schedule.Entry, EntryDTO]{
		ToDTO:    fromDomain,
		ToDomain: toDomain,
	}, opts)
}

func fromDomain(e *schedule.Entry) (EntryDTO, error) {
	s := e.Snapshot()
	slot := s.Binding.Slot

	return EntryDTO{
		ID:              s.ID.Bytes(),
		AgencyID:        s.AgencyID.String(),
		OrderID:         s.OrderRef.Bytes(),
		DriverID:        s.Binding.DriverID.Bytes(),
		VehicleID:       s.Binding.VehicleID.Bytes(),
		Date:            slot.Date(),
		Time:            slot.Clock(),
		DurationMinutes: int(slot.Duration() / time.Minute),
		TimeZone:        slot.Start().Location().String(),
		StartsAt:        slot.Start().UTC(),
		EndsAt:          slot.End().UTC(),
		JobType:         s.Job.Type,
		PickupAddress:   s.Job.Pickup.String(),
		DeliveryAddress: s.Job.Delivery.String(),
		Status:          s.Status.String(),
		StartedAt:       s.StartedAt,
		FinishedAt:      s.FinishedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}, nil
}

func toDomain(dto EntryDTO) (*schedule.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderRef, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	vehicleID, err := kernel.UUIDFromBytes(dto.VehicleID[:])
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(dto.TimeZone)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("timeZone", fmt.Errorf("unknown zone %q: %w", dto.TimeZone, err))
	}
	slot, err := kernel.NewSlot(dto.Date, dto.Time, time.Duration(dto.DurationMinutes)*time.Minute, loc)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewAddress(dto.PickupAddress)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewAddress(dto.DeliveryAddress)
	if err != nil {
		return nil, err
	}
	status, err := schedule.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return schedule.RestoreEntry(schedule.Snapshot{
		ID:       id,
		AgencyID: kernel.AgencyID(dto.AgencyID),
		OrderRef: orderRef,
		Binding: schedule.Binding{
			Slot:      slot,
			DriverID:  driverID,
			VehicleID: vehicleID,
		},
		Job: schedule.Job{
			Type:     dto.JobType,
			Pickup:   pickup,
			Delivery: delivery,
		},
		Status:     status,
		CreatedAt:  dto.CreatedAt,
		StartedAt:  dto.StartedAt,
		FinishedAt: dto.FinishedAt,
		UpdatedAt:  dto.UpdatedAt,
	})
}
