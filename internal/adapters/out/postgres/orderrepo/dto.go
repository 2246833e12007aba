// Package orderrepo maps customer orders to the customer_orders table.
package orderrepo

import (
	"time"

	"dispatch/internal/adapters/out/postgres/gormrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDTO is one row of customer_orders. Assignment columns are indexed
// because availability queries filter by them.
type OrderDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number              string          `gorm:"size:32;not null;uniqueIndex"`
	AgencyID            string          `gorm:"size:64;not null;index"`
	QuoteID             *uuid.UUID      `gorm:"type:uuid"`
	Customer            CustomerDTO     `gorm:"embedded;embeddedPrefix:customer_"`
	PickupAddress       string          `gorm:"not null"`
	DeliveryAddress     string          `gorm:"not null"`
	Package             PackageDTO      `gorm:"embedded;embeddedPrefix:package_"`
	TotalPrice          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ServiceDate         time.Time       `gorm:"not null"`
	DeliveryTime        string          `gorm:"size:5;not null"`
	SpecialInstructions string
	Status              string     `gorm:"size:16;not null;index"`
	PaymentStatus       string     `gorm:"size:16;not null"`
	DriverID            *uuid.UUID `gorm:"type:uuid;index"`
	VehicleID           *uuid.UUID `gorm:"type:uuid;index"`
	CancelReason        string
	OrderDate           time.Time `gorm:"not null"`
	ConfirmedAt         *time.Time
	StartedAt           *time.Time
	CompletedAt         *time.Time
	CanceledAt          *time.Time
	CreatedAt           time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt           time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "customer_orders"
}

type CustomerDTO struct {
	Name  string `gorm:"size:200;not null"`
	Phone string `gorm:"size:32;not null"`
	Email string `gorm:"size:254;not null"`
}

type PackageDTO struct {
	ID        string          `gorm:"size:64;not null"`
	Name      string          `gorm:"size:200;not null"`
	BasePrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

// NewRepository returns the order repository bound to db.
func NewRepository(db *gorm.DB, opts gormrepo.Options) ports.OrderRepository {
	opts.Param = "orderId"
	return gormrepo.New(db, gormrepo.Mapper[*order.CustomerOrder, OrderDTO]{
		ToDTO:    fromDomain,
		ToDomain: toDomain,
	}, opts)
}

func fromDomain(o *order.CustomerOrder) (OrderDTO, error) {
	s := o.Snapshot()

	return OrderDTO{
		ID:       s.ID.Bytes(),
		Number:   s.Number,
		AgencyID: s.AgencyID.String(),
		QuoteID:  rawID(s.Details.QuoteRef),
		Customer: CustomerDTO{
			Name:  s.Details.Customer.Name(),
			Phone: s.Details.Customer.Phone(),
			Email: s.Details.Customer.Email(),
		},
		PickupAddress:   s.Details.Pickup.String(),
		DeliveryAddress: s.Details.Delivery.String(),
		Package: PackageDTO{
			ID:        s.Details.Package.ID(),
			Name:      s.Details.Package.Name(),
			BasePrice: s.Details.Package.BasePrice(),
		},
		TotalPrice:          s.Details.TotalPrice,
		ServiceDate:         s.Details.ServiceDate,
		DeliveryTime:        s.Details.DeliveryTime,
		SpecialInstructions: s.Details.Instructions,
		Status:              s.Status.String(),
		PaymentStatus:       s.PaymentStatus.String(),
		DriverID:            rawID(s.DriverRef),
		VehicleID:           rawID(s.VehicleRef),
		CancelReason:        s.CancelReason,
		OrderDate:           s.OrderDate,
		ConfirmedAt:         s.ConfirmedAt,
		StartedAt:           s.StartedAt,
		CompletedAt:         s.CompletedAt,
		CanceledAt:          s.CanceledAt,
		CreatedAt:           s.OrderDate,
		UpdatedAt:           s.UpdatedAt,
	}, nil
}

func toDomain(dto OrderDTO) (*order.CustomerOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	quoteRef, err := domainID(dto.QuoteID)
	if err != nil {
		return nil, err
	}
	driverRef, err := domainID(dto.DriverID)
	if err != nil {
		return nil, err
	}
	vehicleRef, err := domainID(dto.VehicleID)
	if err != nil {
		return nil, err
	}

	customer, err := kernel.NewContact(dto.Customer.Name, dto.Customer.Phone, dto.Customer.Email)
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
	pkg, err := order.NewPackage(dto.Package.ID, dto.Package.Name, dto.Package.BasePrice)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return order.RestoreCustomerOrder(order.Snapshot{
		ID:       id,
		Number:   dto.Number,
		AgencyID: kernel.AgencyID(dto.AgencyID),
		Details: order.Details{
			QuoteRef:     quoteRef,
			Customer:     customer,
			Pickup:       pickup,
			Delivery:     delivery,
			Package:      pkg,
			TotalPrice:   dto.TotalPrice,
			ServiceDate:  dto.ServiceDate,
			DeliveryTime: dto.DeliveryTime,
			Instructions: dto.SpecialInstructions,
		},
		Status:        status,
		PaymentStatus: paymentStatus,
		DriverRef:     driverRef,
		VehicleRef:    vehicleRef,
		CancelReason:  dto.CancelReason,
		OrderDate:     dto.OrderDate,
		ConfirmedAt:   dto.ConfirmedAt,
		StartedAt:     dto.StartedAt,
		CompletedAt:   dto.CompletedAt,
		CanceledAt:    dto.CanceledAt,
		UpdatedAt:     dto.UpdatedAt,
	})
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
