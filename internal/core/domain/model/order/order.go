package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	InstructionsMaxLength = 2000
	ReasonMaxLength       = 500
)

var (
	// ErrOrderIsNotConstructed is returned when a CustomerOrder was not created
	// through NewCustomerOrder or RestoreCustomerOrder.
	ErrOrderIsNotConstructed = errors.New("CustomerOrder must be created via NewCustomerOrder constructor")

	ErrDriverIsNotAssigned  = errors.New("order has no driver assigned")
	ErrVehicleIsNotAssigned = errors.New("order has no vehicle assigned")
)

// Details holds what the customer ordered. It is fixed at creation.
type Details struct {
	QuoteRef     *kernel.UUID
	Customer     kernel.Contact
	Pickup       kernel.Address
	Delivery     kernel.Address
	Package      Package
	TotalPrice   decimal.Decimal
	ServiceDate  time.Time
	DeliveryTime string
	Instructions string
}

// Snapshot is the complete persisted state of an order.
type Snapshot struct {
	ID            kernel.UUID
	Number        string
	AgencyID      kernel.AgencyID
	Details       Details
	Status        Status
	PaymentStatus PaymentStatus
	DriverRef     *kernel.UUID
	VehicleRef    *kernel.UUID
	CancelReason  string
	OrderDate     time.Time
	ConfirmedAt   *time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CanceledAt    *time.Time
	UpdatedAt     time.Time
}

// TransitionMetadata is applied atomically with a status change.
type TransitionMetadata struct {
	// Reason is stored as the cancel reason when the order is canceled.
	Reason string
}

// CustomerOrder is the aggregate root of the dispatch lifecycle.
//
// Invariants:
//   - in_progress ⇒ driver and vehicle are assigned
//   - completed and canceled accept no transition
//   - the order number is derived once from the order date and id
type CustomerOrder struct {
	kernel.EventRecorder

	id            kernel.UUID
	number        string
	agencyID      kernel.AgencyID
	details       Details
	status        Status
	paymentStatus PaymentStatus
	driverRef     *kernel.UUID
	vehicleRef    *kernel.UUID
	cancelReason  string
	orderDate     time.Time
	confirmedAt   *time.Time
	startedAt     *time.Time
	completedAt   *time.Time
	canceledAt    *time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewCustomerOrder creates a pending, unpaid and unassigned order.
//
// Parameters:
//   - id: identifier of the order
//   - agencyID: owning agency
//   - details: customer, addresses, package, price, service date and time
//   - orderDate: instant the order was placed
//
// Returns:
//   - *CustomerOrder with a generated number "ORD-YYYYMMDD-XXXXXX"
//   - joined validation errors for every invalid field
func NewCustomerOrder(id kernel.UUID, agencyID kernel.AgencyID, details Details, orderDate time.Time) (*CustomerOrder, error) {
	o := &CustomerOrder{
		status:        Pending,
		paymentStatus: PaymentPending,
		orderDate:     orderDate,
		updatedAt:     orderDate,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setAgencyID(agencyID),
		o.setDetails(details),
		o.setOrderDate(orderDate),
	); err != nil {
		return nil, err
	}
	o.number = fmt.Sprintf("ORD-%s-%s", orderDate.Format("20060102"), strings.ToUpper(id.String()[:6]))

	return o, nil
}

// RestoreCustomerOrder rebuilds an order from persisted state.
func RestoreCustomerOrder(s Snapshot) (*CustomerOrder, error) {
	o := &CustomerOrder{
		number:        strings.TrimSpace(s.Number),
		status:        s.Status,
		paymentStatus: s.PaymentStatus,
		driverRef:     kernel.ClonePtr(s.DriverRef),
		vehicleRef:    kernel.ClonePtr(s.VehicleRef),
		cancelReason:  s.CancelReason,
		confirmedAt:   kernel.ClonePtr(s.ConfirmedAt),
		startedAt:     kernel.ClonePtr(s.StartedAt),
		completedAt:   kernel.ClonePtr(s.CompletedAt),
		canceledAt:    kernel.ClonePtr(s.CanceledAt),
		updatedAt:     s.UpdatedAt,
		isConstructed: true,
	}

	var numberErr error
	if o.number == "" {
		numberErr = errs.NewValueIsRequiredError("orderId")
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setAgencyID(s.AgencyID),
		o.setDetails(s.Details),
		o.setOrderDate(s.OrderDate),
		s.PaymentStatus.Validate(),
		numberErr,
	); err != nil {
		return nil, err
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate checks construction, the status value and the in_progress invariant.
func (o *CustomerOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	if err := o.status.Validate(); err != nil {
		return err
	}
	if o.status == InProgress {
		return o.requireResources()
	}
	return nil
}

func (o *CustomerOrder) IsEqual(other *CustomerOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *CustomerOrder) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable order id.
func (o *CustomerOrder) Number() string {
	return o.number
}

func (o *CustomerOrder) AgencyID() kernel.AgencyID {
	return o.agencyID
}

func (o *CustomerOrder) QuoteRef() *kernel.UUID {
	return kernel.ClonePtr(o.details.QuoteRef)
}

func (o *CustomerOrder) Customer() kernel.Contact {
	return o.details.Customer
}

func (o *CustomerOrder) PickupAddress() kernel.Address {
	return o.details.Pickup
}

func (o *CustomerOrder) DeliveryAddress() kernel.Address {
	return o.details.Delivery
}

func (o *CustomerOrder) Package() Package {
	return o.details.Package
}

func (o *CustomerOrder) TotalPrice() decimal.Decimal {
	return o.details.TotalPrice
}

func (o *CustomerOrder) ServiceDate() time.Time {
	return o.details.ServiceDate
}

func (o *CustomerOrder) DeliveryTime() string {
	return o.details.DeliveryTime
}

func (o *CustomerOrder) SpecialInstructions() string {
	return o.details.Instructions
}

func (o *CustomerOrder) Status() Status {
	return o.status
}

func (o *CustomerOrder) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Driver returns the assigned driver id, or nil.
func (o *CustomerOrder) Driver() *kernel.UUID {
	return kernel.ClonePtr(o.driverRef)
}

// Vehicle returns the assigned vehicle id, or nil.
func (o *CustomerOrder) Vehicle() *kernel.UUID {
	return kernel.ClonePtr(o.vehicleRef)
}

func (o *CustomerOrder) CancelReason() string {
	return o.cancelReason
}

func (o *CustomerOrder) OrderDate() time.Time {
	return o.orderDate
}

func (o *CustomerOrder) UpdatedAt() time.Time {
	return o.updatedAt
}

// Snapshot exports the full state for persistence and read models.
func (o *CustomerOrder) Snapshot() Snapshot {
	details := o.details
	details.QuoteRef = kernel.ClonePtr(o.details.QuoteRef)
	return Snapshot{
		ID:            o.id,
		Number:        o.number,
		AgencyID:      o.agencyID,
		Details:       details,
		Status:        o.status,
		PaymentStatus: o.paymentStatus,
		DriverRef:     kernel.ClonePtr(o.driverRef),
		VehicleRef:    kernel.ClonePtr(o.vehicleRef),
		CancelReason:  o.cancelReason,
		OrderDate:     o.orderDate,
		ConfirmedAt:   kernel.ClonePtr(o.confirmedAt),
		StartedAt:     kernel.ClonePtr(o.startedAt),
		CompletedAt:   kernel.ClonePtr(o.completedAt),
		CanceledAt:    kernel.ClonePtr(o.canceledAt),
		UpdatedAt:     o.updatedAt,
	}
}

// Touch sets the last modification instant. Stores call it on every write.
func (o *CustomerOrder) Touch(at time.Time) {
	o.updatedAt = at
}

// Clone returns a deep copy without pending domain events.
func (o *CustomerOrder) Clone() *CustomerOrder {
	c := *o
	c.EventRecorder = kernel.EventRecorder{}
	c.details.QuoteRef = kernel.ClonePtr(o.details.QuoteRef)
	c.driverRef = kernel.ClonePtr(o.driverRef)
	c.vehicleRef = kernel.ClonePtr(o.vehicleRef)
	c.confirmedAt = kernel.ClonePtr(o.confirmedAt)
	c.startedAt = kernel.ClonePtr(o.startedAt)
	c.completedAt = kernel.ClonePtr(o.completedAt)
	c.canceledAt = kernel.ClonePtr(o.canceledAt)
	return &c
}

// RequestedSlot returns the window the customer asked for: service date at
// delivery time, lasting duration.
func (o *CustomerOrder) RequestedSlot(duration time.Duration, loc *time.Location) (kernel.Slot, error) {
	return kernel.NewSlot(o.details.ServiceDate.Format(kernel.DateLayout), o.details.DeliveryTime, duration, loc)
}

// Transition moves the order through its state machine.
//
// Checks, in order:
//   - to must be reachable from the current status (IllegalTransitionError)
//   - in_progress requires an assigned driver and vehicle (PreconditionFailedError)
//
// On success the status, the matching timestamp and the cancel reason change
// together and an order.status_changed event is recorded. On failure the
// order is left untouched.
//
// Example:
//
//	if err := o.Transition(order.Canceled, order.TransitionMetadata{Reason: "customer request"}, now); err != nil {
//	    return err
//	}
func (o *CustomerOrder) Transition(to Status, meta TransitionMetadata, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}

	reason := strings.TrimSpace(meta.Reason)
	if len(reason) > ReasonMaxLength {
		return errs.NewValueIsOutOfRangeError("reason length", len(reason), 0, ReasonMaxLength)
	}

	from := o.status
	next, err := from.TransitionTo(to)
	if err != nil {
		return err
	}
	if next == InProgress {
		if err = o.requireResources(); err != nil {
			return err
		}
	}

	o.status = next
	switch next {
	case Confirmed:
		o.confirmedAt = &at
	case InProgress:
		o.startedAt = &at
	case Completed:
		o.completedAt = &at
	case Canceled:
		o.canceledAt = &at
		o.cancelReason = reason
	case Unknown, Pending:
	}
	o.updatedAt = at

	o.Record(StatusChangedEvent{
		OrderID:     o.id,
		OrderNumber: o.number,
		AgencyID:    o.agencyID,
		From:        from.String(),
		To:          next.String(),
		Reason:      reason,
		At:          at,
	})

	return nil
}

// AssignResources binds a driver and a vehicle. Allowed while the order is
// pending or confirmed; a second call replaces the previous binding.
func (o *CustomerOrder) AssignResources(driverID, vehicleID kernel.UUID, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := errors.Join(driverID.Validate(), vehicleID.Validate()); err != nil {
		return err
	}
	if !o.status.IsAssignable() {
		return errs.NewPreconditionFailedError(
			"order status",
			fmt.Errorf("resources cannot be assigned to a %s order", o.status),
		)
	}

	o.driverRef = &driverID
	o.vehicleRef = &vehicleID
	o.updatedAt = at

	o.Record(ResourcesAssignedEvent{
		OrderID:     o.id,
		OrderNumber: o.number,
		AgencyID:    o.agencyID,
		DriverID:    driverID.String(),
		VehicleID:   vehicleID.String(),
		At:          at,
	})

	return nil
}

// RecordPayment moves the payment status (pending → paid/refunded, paid → refunded).
func (o *CustomerOrder) RecordPayment(to PaymentStatus, at time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	next, err := o.paymentStatus.TransitionTo(to)
	if err != nil {
		return err
	}
	o.paymentStatus = next
	o.updatedAt = at
	return nil
}

func (o *CustomerOrder) requireResources() error {
	var err error
	if o.driverRef == nil {
		err = errors.Join(err, errs.NewPreconditionFailedError("driver", ErrDriverIsNotAssigned))
	}
	if o.vehicleRef == nil {
		err = errors.Join(err, errs.NewPreconditionFailedError("vehicle", ErrVehicleIsNotAssigned))
	}
	return err
}

func (o *CustomerOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *CustomerOrder) setAgencyID(agencyID kernel.AgencyID) error {
	if err := agencyID.Validate(); err != nil {
		return err
	}
	o.agencyID = agencyID
	return nil
}

func (o *CustomerOrder) setOrderDate(orderDate time.Time) error {
	if orderDate.IsZero() {
		return errs.NewValueIsRequiredError("orderDate")
	}
	o.orderDate = orderDate
	return nil
}

func (o *CustomerOrder) setDetails(d Details) error {
	var err error
	if d.QuoteRef != nil {
		err = errors.Join(err, d.QuoteRef.Validate())
	}
	err = errors.Join(err,
		d.Customer.Validate(),
		d.Pickup.Validate(),
		d.Delivery.Validate(),
		d.Package.Validate(),
		kernel.ValidateAmount("totalPrice", d.TotalPrice),
	)
	if d.ServiceDate.IsZero() {
		err = errors.Join(err, errs.NewValueIsRequiredError("serviceDate"))
	}
	if _, parseErr := time.Parse(kernel.ClockLayout, d.DeliveryTime); parseErr != nil {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause(
			"deliveryTime", fmt.Errorf("%q must match %s", d.DeliveryTime, kernel.ClockLayout)))
	}
	instructions := strings.TrimSpace(d.Instructions)
	if len(instructions) > InstructionsMaxLength {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError(
			"specialInstructions length", len(instructions), 0, InstructionsMaxLength))
	}
	if err != nil {
		return err
	}

	d.QuoteRef = kernel.ClonePtr(d.QuoteRef)
	d.ServiceDate = kernel.StartOfDay(d.ServiceDate)
	d.Instructions = instructions
	o.details = d
	return nil
}
