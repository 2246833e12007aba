package http

import (
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Contact struct {
	Name  string              `json:"name"  validate:"required,max=255"`
	Phone string              `json:"phone" validate:"required,max=32"`
	Email openapi_types.Email `json:"email" validate:"required"`
}

type SubmitQuoteRequest struct {
	Customer        Contact                    `json:"customer"        validate:"required"`
	PickupAddress   string                     `json:"pickupAddress"   validate:"required"`
	DeliveryAddress string                     `json:"deliveryAddress" validate:"required"`
	PreferredDate   openapi_types.Date         `json:"preferredDate"   validate:"required"`
	BasePrice       decimal.Decimal            `json:"basePrice"`
	PriceBreakdown  map[string]decimal.Decimal `json:"priceBreakdown,omitempty"`
	TotalPrice      *decimal.Decimal           `json:"totalPrice,omitempty"`
}

type DecideQuoteRequest struct {
	Decision   string `json:"decision"   validate:"required,oneof=approve reject approved rejected"`
	Notes      string `json:"notes"`
	ReviewedBy string `json:"reviewedBy" validate:"max=255"`
}

type AnnotateQuoteRequest struct {
	Notes string `json:"notes"`
}

type Package struct {
	ID        string          `json:"id"        validate:"required,max=64"`
	Name      string          `json:"name"      validate:"required,max=255"`
	BasePrice decimal.Decimal `json:"basePrice"`
}

type CreateOrderFromQuoteRequest struct {
	Package      Package             `json:"package"      validate:"required"`
	ServiceDate  *openapi_types.Date `json:"serviceDate,omitempty"`
	DeliveryTime string              `json:"deliveryTime" validate:"required"`
	Instructions string              `json:"specialInstructions"`
}

type CreateOrderRequest struct {
	Customer        Contact            `json:"customer"        validate:"required"`
	PickupAddress   string             `json:"pickupAddress"   validate:"required"`
	DeliveryAddress string             `json:"deliveryAddress" validate:"required"`
	Package         Package            `json:"package"         validate:"required"`
	TotalPrice      decimal.Decimal    `json:"totalPrice"`
	ServiceDate     openapi_types.Date `json:"serviceDate"     validate:"required"`
	DeliveryTime    string             `json:"deliveryTime"    validate:"required"`
	Instructions    string             `json:"specialInstructions"`
}

type AssignResourcesRequest struct {
	DriverID  openapi_types.UUID `json:"driverId"  validate:"required"`
	VehicleID openapi_types.UUID `json:"vehicleId" validate:"required"`
	Date      string             `json:"date"      validate:"required"`
	Time      string             `json:"time"      validate:"required"`
	// DurationMinutes defaults to the configured slot duration.
	DurationMinutes int    `json:"durationMinutes" validate:"gte=0,lte=1440"`
	JobType         string `json:"jobType"         validate:"max=64"`
}

type TransitionOrderRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type RecordPaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

type RegisterDriverRequest struct {
	Name          string              `json:"name"          validate:"required,max=255"`
	Phone         string              `json:"phone"         validate:"required,max=32"`
	LicenseNumber string              `json:"licenseNumber" validate:"required,max=64"`
	HomeVehicleID *openapi_types.UUID `json:"homeVehicleId,omitempty"`
}

type ChangeDriverStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RegisterVehicleRequest struct {
	Name                string              `json:"name"                validate:"required,max=255"`
	PlateNumber         string              `json:"plateNumber"         validate:"required,max=32"`
	Capacity            int                 `json:"capacity"            validate:"gte=0"`
	LastMaintenanceDate *openapi_types.Date `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate *openapi_types.Date `json:"nextMaintenanceDate,omitempty"`
}

type ChangeVehicleStatusRequest struct {
	Status              string              `json:"status" validate:"required"`
	LastMaintenanceDate *openapi_types.Date `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate *openapi_types.Date `json:"nextMaintenanceDate,omitempty"`
}

type ContactView struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type QuoteView struct {
	ID              string            `json:"id"`
	AgencyID        string            `json:"agencyId"`
	Customer        ContactView       `json:"customer"`
	PickupAddress   string            `json:"pickupAddress"`
	DeliveryAddress string            `json:"deliveryAddress"`
	PreferredDate   string            `json:"preferredDate"`
	BasePrice       string            `json:"basePrice"`
	PriceBreakdown  map[string]string `json:"priceBreakdown"`
	TotalPrice      string            `json:"totalPrice"`
	Status          string            `json:"status"`
	AdminNotes      string            `json:"adminNotes,omitempty"`
	ReviewedBy      string            `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type PackageView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BasePrice string `json:"basePrice"`
}

type OrderView struct {
	ID              string             `json:"id"`
	Number          string             `json:"orderNumber"`
	AgencyID        string             `json:"agencyId"`
	QuoteID         *string            `json:"quoteId,omitempty"`
	Customer        ContactView        `json:"customer"`
	PickupAddress   string             `json:"pickupAddress"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Package         PackageView        `json:"package"`
	TotalPrice      string             `json:"totalPrice"`
	ServiceDate     string             `json:"serviceDate"`
	DeliveryTime    string             `json:"deliveryTime"`
	Instructions    string             `json:"specialInstructions,omitempty"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"paymentStatus"`
	DriverID        *string            `json:"driverId,omitempty"`
	VehicleID       *string            `json:"vehicleId,omitempty"`
	CancelReason    string             `json:"cancelReason,omitempty"`
	OrderDate       time.Time          `json:"orderDate"`
	ConfirmedAt     *time.Time         `json:"confirmedAt,omitempty"`
	StartedAt       *time.Time         `json:"startedAt,omitempty"`
	CompletedAt     *time.Time         `json:"completedAt,omitempty"`
	CanceledAt      *time.Time         `json:"canceledAt,omitempty"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Schedule        *ScheduleEntryView `json:"schedule,omitempty"`
}

type ScheduleEntryView struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"orderId"`
	DriverID        string     `json:"driverId"`
	VehicleID       string     `json:"vehicleId"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	DurationMinutes int        `json:"durationMinutes"`
	JobType         string     `json:"jobType"`
	PickupAddress   string     `json:"pickupAddress"`
	DeliveryAddress string     `json:"deliveryAddress"`
	Status          string     `json:"status"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type AssignmentView struct {
	Order   OrderView         `json:"order"`
	Entry   ScheduleEntryView `json:"schedule"`
	Created bool              `json:"created"`
}

type DriverView struct {
	ID            string    `json:"id"`
	AgencyID      string    `json:"agencyId"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	LicenseNumber string    `json:"licenseNumber"`
	HomeVehicleID *string   `json:"homeVehicleId,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type VehicleView struct {
	ID                  string    `json:"id"`
	AgencyID            string    `json:"agencyId"`
	Name                string    `json:"name"`
	PlateNumber         string    `json:"plateNumber"`
	Capacity            int       `json:"capacity"`
	Status              string    `json:"status"`
	LastMaintenanceDate *string   `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate *string   `json:"nextMaintenanceDate,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type AvailabilityView struct {
	Kind         string              `json:"kind"`
	ResourceID   string              `json:"resourceId"`
	At           time.Time           `json:"at"`
	Availability string              `json:"availability"`
	NextFreeAt   *time.Time          `json:"nextFreeAt,omitempty"`
	Commitments  []ScheduleEntryView `json:"commitments"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func idPtr(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func datePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(kernel.DateLayout)
	return &s
}

func contactView(c kernel.Contact) ContactView {
	return ContactView{Name: c.Name(), Phone: c.Phone(), Email: c.Email()}
}

func quoteView(q *quote.QuoteRequest) QuoteView {
	breakdown := make(map[string]string, len(q.PriceBreakdown()))
	for reason, amount := range q.PriceBreakdown() {
		breakdown[reason] = money(amount)
	}

	return QuoteView{
		ID:              q.ID().String(),
		AgencyID:        q.AgencyID().String(),
		Customer:        contactView(q.Customer()),
		PickupAddress:   q.PickupAddress().String(),
		DeliveryAddress: q.DeliveryAddress().String(),
		PreferredDate:   q.PreferredDate().Format(kernel.DateLayout),
		BasePrice:       money(q.BasePrice()),
		PriceBreakdown:  breakdown,
		TotalPrice:      money(q.TotalPrice()),
		Status:          q.Status().String(),
		AdminNotes:      q.AdminNotes(),
		ReviewedBy:      q.ReviewedBy(),
		ReviewedAt:      q.ReviewedAt(),
		CreatedAt:       q.CreatedAt(),
		UpdatedAt:       q.UpdatedAt(),
	}
}

func orderView(o *order.CustomerOrder, e *schedule.Entry) OrderView {
	s := o.Snapshot()
	v := OrderView{
		ID:              o.ID().String(),
		Number:          o.Number(),
		AgencyID:        o.AgencyID().String(),
		QuoteID:         idPtr(o.QuoteRef()),
		Customer:        contactView(o.Customer()),
		PickupAddress:   o.PickupAddress().String(),
		DeliveryAddress: o.DeliveryAddress().String(),
		Package: PackageView{
			ID:        o.Package().ID(),
			Name:      o.Package().Name(),
			BasePrice: money(o.Package().BasePrice()),
		},
		TotalPrice:    money(o.TotalPrice()),
		ServiceDate:   o.ServiceDate().Format(kernel.DateLayout),
		DeliveryTime:  o.DeliveryTime(),
		Instructions:  o.SpecialInstructions(),
		Status:        o.Status().String(),
		PaymentStatus: o.PaymentStatus().String(),
		DriverID:      idPtr(o.Driver()),
		VehicleID:     idPtr(o.Vehicle()),
		CancelReason:  o.CancelReason(),
		OrderDate:     o.OrderDate(),
		ConfirmedAt:   s.ConfirmedAt,
		StartedAt:     s.StartedAt,
		CompletedAt:   s.CompletedAt,
		CanceledAt:    s.CanceledAt,
		UpdatedAt:     o.UpdatedAt(),
	}
	if e != nil {
		ev := entryView(e)
		v.Schedule = &ev
	}
	return v
}

func entryView(e *schedule.Entry) ScheduleEntryView {
	return ScheduleEntryView{
		ID:              e.ID().String(),
		OrderID:         e.OrderRef().String(),
		DriverID:        e.Driver().String(),
		VehicleID:       e.Vehicle().String(),
		Date:            e.Date(),
		Time:            e.Time(),
		DurationMinutes: int(e.Slot().Duration() / time.Minute),
		JobType:         e.JobType(),
		PickupAddress:   e.PickupAddress().String(),
		DeliveryAddress: e.DeliveryAddress().String(),
		Status:          e.Status().String(),
		StartedAt:       e.StartedAt(),
		FinishedAt:      e.FinishedAt(),
		CreatedAt:       e.CreatedAt(),
		UpdatedAt:       e.UpdatedAt(),
	}
}

func entryViews(entries []*schedule.Entry) []ScheduleEntryView {
	out := make([]ScheduleEntryView, len(entries))
	for i, e := range entries {
		out[i] = entryView(e)
	}
	return out
}

func driverView(d *driver.Driver) DriverView {
	return DriverView{
		ID:            d.ID().String(),
		AgencyID:      d.AgencyID().String(),
		Name:          d.Name(),
		Phone:         d.Phone(),
		LicenseNumber: d.LicenseNumber(),
		HomeVehicleID: idPtr(d.HomeVehicle()),
		Status:        d.Status().String(),
		CreatedAt:     d.CreatedAt(),
		UpdatedAt:     d.UpdatedAt(),
	}
}

func vehicleView(v *vehicle.Vehicle) VehicleView {
	return VehicleView{
		ID:                  v.ID().String(),
		AgencyID:            v.AgencyID().String(),
		Name:                v.Name(),
		PlateNumber:         v.PlateNumber(),
		Capacity:            v.Capacity(),
		Status:              v.Status().String(),
		LastMaintenanceDate: datePtr(v.LastMaintenanceDate()),
		NextMaintenanceDate: datePtr(v.NextMaintenanceDate()),
		CreatedAt:           v.CreatedAt(),
		UpdatedAt:           v.UpdatedAt(),
	}
}

func availabilityView(r services.AvailabilityReport) AvailabilityView {
	return AvailabilityView{
		Kind:         r.Kind.String(),
		ResourceID:   r.ResourceID.String(),
		At:           r.At,
		Availability: r.Availability.String(),
		NextFreeAt:   r.NextFreeAt,
		Commitments:  entryViews(r.Commitments),
	}
}

func dateOf(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
