// Package quoterepo maps quote requests to the quote_requests table.
package quoterepo

import (
	"time"

	"dispatch/internal/adapters/out/postgres/gormrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuoteDTO is one row of quote_requests.
type QuoteDTO struct {
	ID              uuid.UUID                  `gorm:"type:uuid;primaryKey"`
	AgencyID        string                     `gorm:"size:64;not null;index"`
	CustomerName    string                     `gorm:"size:200;not null"`
	CustomerPhone   string                     `gorm:"size:32;not null"`
	CustomerEmail   string                     `gorm:"size:254;not null"`
	PickupAddress   string                     `gorm:"not null"`
	DeliveryAddress string                     `gorm:"not null"`
	PreferredDate   time.Time                  `gorm:"not null"`
	BasePrice       decimal.Decimal            `gorm:"type:numeric(14,2);not null"`
	PriceBreakdown  map[string]decimal.Decimal `gorm:"serializer:json;type:text"`
	TotalPrice      decimal.Decimal            `gorm:"type:numeric(14,2);not null"`
	Status          string                     `gorm:"size:16;not null;index"`
	AdminNotes      string
	ReviewedBy      string `gorm:"size:200"`
	ReviewedAt      *time.Time
	CreatedAt       time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (QuoteDTO) TableName() string {
	return "quote_requests"
}

// NewRepository returns the quote repository bound to db.
func NewRepository(db *gorm.DB, opts gormrepo.Options) ports.QuoteRepository {
	opts.Param = "quoteId"
	return gormrepo.New(db, gormrepo.Mapper[*quote.QuoteRequest, QuoteDTO]{
		ToDTO:    fromDomain,
		ToDomain: toDomain,
	}, opts)
}

func fromDomain(q *quote.QuoteRequest) (QuoteDTO, error) {
	return QuoteDTO{
		ID:              q.ID().Bytes(),
		AgencyID:        q.AgencyID().String(),
		CustomerName:    q.Customer().Name(),
		CustomerPhone:   q.Customer().Phone(),
		CustomerEmail:   q.Customer().Email(),
		PickupAddress:   q.PickupAddress().String(),
		DeliveryAddress: q.DeliveryAddress().String(),
		PreferredDate:   q.PreferredDate(),
		BasePrice:       q.BasePrice(),
		PriceBreakdown:  q.PriceBreakdown(),
		TotalPrice:      q.TotalPrice(),
		Status:          q.Status().String(),
		AdminNotes:      q.AdminNotes(),
		ReviewedBy:      q.ReviewedBy(),
		ReviewedAt:      q.ReviewedAt(),
		CreatedAt:       q.CreatedAt(),
		UpdatedAt:       q.UpdatedAt(),
	}, nil
}

func toDomain(dto QuoteDTO) (*quote.QuoteRequest, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := kernel.NewContact(dto.CustomerName, dto.CustomerPhone, dto.CustomerEmail)
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
	status, err := quote.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return quote.RestoreQuoteRequest(
		id,
		kernel.AgencyID(dto.AgencyID),
		customer,
		pickup,
		delivery,
		dto.PreferredDate,
		dto.BasePrice,
		quote.PriceBreakdown(dto.PriceBreakdown),
		dto.TotalPrice,
		status,
		dto.AdminNotes,
		dto.ReviewedBy,
		dto.CreatedAt,
		dto.ReviewedAt,
		dto.UpdatedAt,
	)
}
