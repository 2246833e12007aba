package quote

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const NotesMaxLength = 2000

var (
	// ErrQuoteIsNotConstructed is returned when a QuoteRequest was not created
	// through NewQuoteRequest or RestoreQuoteRequest.
	ErrQuoteIsNotConstructed = errors.New("QuoteRequest must be created via NewQuoteRequest constructor")

	// ErrTotalMismatch is the cause reported when the total price does not
	// equal base price plus surcharges.
	ErrTotalMismatch = errors.New("total price must equal base price plus surcharges")
)

// QuoteRequest is the aggregate root of the approval workflow.
//
// Invariants:
//   - totalPrice = basePrice + Σ priceBreakdown
//   - prices are never negative
//   - once approved or rejected, only adminNotes may change
type QuoteRequest struct {
	kernel.EventRecorder

	id            kernel.UUID
	agencyID      kernel.AgencyID
	customer      kernel.Contact
	pickup        kernel.Address
	delivery      kernel.Address
	preferredDate time.Time
	basePrice     decimal.Decimal
	breakdown     PriceBreakdown
	totalPrice    decimal.Decimal
	status        Status
	adminNotes    string
	reviewedBy    string
	createdAt     time.Time
	reviewedAt    *time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewQuoteRequest creates a pending quote and derives its total price.
//
// Parameters:
//   - id: identifier of the new quote
//   - agencyID: agency the quote belongs to
//   - customer, pickup, delivery: validated value objects
//   - preferredDate: requested moving day (time of day is dropped)
//   - basePrice: package price before surcharges
//   - breakdown: surcharges by reason (may be empty)
//   - createdAt: submission instant
//
// Example:
//
//	breakdown := quote.PriceBreakdown{}
//	_ = breakdown.Add("extraFloors", 2, decimal.NewFromInt(20000))
//	q, err := quote.NewQuoteRequest(id, "agency-1", customer, from, to, day,
//	    decimal.NewFromInt(150000), breakdown, now)
//	// q.TotalPrice() == 190000, q.Status() == quote.Pending
func NewQuoteRequest(
	id kernel.UUID,
	agencyID kernel.AgencyID,
	customer kernel.Contact,
	pickup kernel.Address,
	delivery kernel.Address,
	preferredDate time.Time,
	basePrice decimal.Decimal,
	breakdown PriceBreakdown,
	createdAt time.Time,
) (*QuoteRequest, error) {
	q := &QuoteRequest{
		status:        Pending,
		createdAt:     createdAt,
		updatedAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		q.setID(id),
		q.setAgencyID(agencyID),
		q.setCustomer(customer),
		q.setAddresses(pickup, delivery),
		q.setPreferredDate(preferredDate),
		q.setPrices(basePrice, breakdown),
	); err != nil {
		return nil, err
	}
	q.totalPrice = q.basePrice.Add(q.breakdown.Sum())

	return q, nil
}

// RestoreQuoteRequest rebuilds a quote from persisted state and re-checks
// its invariants, including the stored total price.
func RestoreQuoteRequest(
	id kernel.UUID,
	agencyID kernel.AgencyID,
	customer kernel.Contact,
	pickup kernel.Address,
	delivery kernel.Address,
	preferredDate time.Time,
	basePrice decimal.Decimal,
	breakdown PriceBreakdown,
	totalPrice decimal.Decimal,
	status Status,
	adminNotes string,
	reviewedBy string,
	createdAt time.Time,
	reviewedAt *time.Time,
	updatedAt time.Time,
) (*QuoteRequest, error) {
	q := &QuoteRequest{
		totalPrice:    totalPrice,
		adminNotes:    adminNotes,
		reviewedBy:    reviewedBy,
		createdAt:     createdAt,
		reviewedAt:    kernel.ClonePtr(reviewedAt),
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		q.setID(id),
		q.setAgencyID(agencyID),
		q.setCustomer(customer),
		q.setAddresses(pickup, delivery),
		q.setPreferredDate(preferredDate),
		q.setPrices(basePrice, breakdown),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	q.status = status

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return q, nil
}

// Validate checks construction and the price invariant.
func (q *QuoteRequest) Validate() error {
	if q == nil || !q.isConstructed {
		return ErrQuoteIsNotConstructed
	}
	if !q.totalPrice.Equal(q.basePrice.Add(q.breakdown.Sum())) {
		return errs.NewValueIsInvalidErrorWithCause("totalPrice", fmt.Errorf(
			"%w: %s != %s + %s", ErrTotalMismatch, q.totalPrice, q.basePrice, q.breakdown.Sum()))
	}
	return nil
}

// CheckDeclaredTotal compares a client-computed total with the derived one.
func (q *QuoteRequest) CheckDeclaredTotal(declared decimal.Decimal) error {
	if !declared.Equal(q.totalPrice) {
		return errs.NewValueIsInvalidErrorWithCause("totalPrice", fmt.Errorf(
			"%w: declared %s, expected %s", ErrTotalMismatch, declared, q.totalPrice))
	}
	return nil
}

func (q *QuoteRequest) ID() kernel.UUID {
	return q.id
}

func (q *QuoteRequest) AgencyID() kernel.AgencyID {
	return q.agencyID
}

func (q *QuoteRequest) Customer() kernel.Contact {
	return q.customer
}

func (q *QuoteRequest) PickupAddress() kernel.Address {
	return q.pickup
}

func (q *QuoteRequest) DeliveryAddress() kernel.Address {
	return q.delivery
}

func (q *QuoteRequest) PreferredDate() time.Time {
	return q.preferredDate
}

func (q *QuoteRequest) BasePrice() decimal.Decimal {
	return q.basePrice
}

// PriceBreakdown returns a copy of the surcharges.
func (q *QuoteRequest) PriceBreakdown() PriceBreakdown {
	return q.breakdown.Clone()
}

func (q *QuoteRequest) TotalPrice() decimal.Decimal {
	return q.totalPrice
}

func (q *QuoteRequest) Status() Status {
	return q.status
}

func (q *QuoteRequest) AdminNotes() string {
	return q.adminNotes
}

func (q *QuoteRequest) ReviewedBy() string {
	return q.reviewedBy
}

func (q *QuoteRequest) CreatedAt() time.Time {
	return q.createdAt
}

func (q *QuoteRequest) ReviewedAt() *time.Time {
	return kernel.ClonePtr(q.reviewedAt)
}

func (q *QuoteRequest) UpdatedAt() time.Time {
	return q.updatedAt
}

// Touch sets the last modification instant. Stores call it on every write.
func (q *QuoteRequest) Touch(at time.Time) {
	q.updatedAt = at
}

// Clone returns a deep copy without pending domain events.
func (q *QuoteRequest) Clone() *QuoteRequest {
	c := *q
	c.EventRecorder = kernel.EventRecorder{}
	c.breakdown = q.breakdown.Clone()
	c.reviewedAt = kernel.ClonePtr(q.reviewedAt)
	return &c
}

// Review carries the metadata applied together with a decision.
type Review struct {
	ReviewedBy string
	Notes      string
}

// Transition moves the quote through its state machine, applying the review
// metadata and stamping reviewedAt in the same step. Nothing changes when
// the move is rejected.
func (q *QuoteRequest) Transition(to Status, review Review, at time.Time) error {
	if err := q.Validate(); err != nil {
		return err
	}
	notes, err := normalizeNotes(review.Notes)
	if err != nil {
		return err
	}

	next, err := q.status.TransitionTo(to)
	if err != nil {
		return err
	}

	q.status = next
	q.reviewedBy = strings.TrimSpace(review.ReviewedBy)
	if notes != "" {
		q.adminNotes = notes
	}
	q.reviewedAt = &at
	q.updatedAt = at

	q.Record(DecidedEvent{
		QuoteID:    q.id,
		AgencyID:   q.agencyID,
		Status:     next.String(),
		ReviewedBy: q.reviewedBy,
		TotalPrice: q.totalPrice.StringFixed(kernel.AmountScale),
		At:         at,
	})

	return nil
}

// Annotate replaces the administrator notes; allowed in every status.
func (q *QuoteRequest) Annotate(notes string, at time.Time) error {
	if err := q.Validate(); err != nil {
		return err
	}
	normalized, err := normalizeNotes(notes)
	if err != nil {
		return err
	}

	q.adminNotes = normalized
	q.updatedAt = at
	return nil
}

func normalizeNotes(notes string) (string, error) {
	notes = strings.TrimSpace(notes)
	if len(notes) > NotesMaxLength {
		return "", errs.NewValueIsOutOfRangeError("adminNotes length", len(notes), 0, NotesMaxLength)
	}
	return notes, nil
}

func (q *QuoteRequest) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.id = id
	return nil
}

func (q *QuoteRequest) setAgencyID(agencyID kernel.AgencyID) error {
	if err := agencyID.Validate(); err != nil {
		return err
	}
	q.agencyID = agencyID
	return nil
}

func (q *QuoteRequest) setCustomer(customer kernel.Contact) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	q.customer = customer
	return nil
}

func (q *QuoteRequest) setAddresses(pickup, delivery kernel.Address) error {
	if err := errors.Join(pickup.Validate(), delivery.Validate()); err != nil {
		return err
	}
	q.pickup = pickup
	q.delivery = delivery
	return nil
}

func (q *QuoteRequest) setPreferredDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("preferredDate")
	}
	q.preferredDate = kernel.StartOfDay(date)
	return nil
}

func (q *QuoteRequest) setPrices(basePrice decimal.Decimal, breakdown PriceBreakdown) error {
	if err := errors.Join(
		kernel.ValidateAmount("basePrice", basePrice),
		breakdown.Validate(),
	); err != nil {
		return err
	}
	q.basePrice = basePrice
	q.breakdown = breakdown.Clone()
	return nil
}
