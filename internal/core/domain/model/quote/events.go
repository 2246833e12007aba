package quote

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const DecidedEventName = "quote.decided"

// DecidedEvent is raised when a pending quote is approved or rejected.
type DecidedEvent struct {
	QuoteID    kernel.UUID     `json:"-"`
	AgencyID   kernel.AgencyID `json:"agencyId"`
	Status     string          `json:"status"`
	ReviewedBy string          `json:"reviewedBy"`
	TotalPrice string          `json:"totalPrice"`
	At         time.Time       `json:"at"`
}

func (e DecidedEvent) EventName() string {
	return DecidedEventName
}

func (e DecidedEvent) AggregateID() kernel.UUID {
	return e.QuoteID
}

func (e DecidedEvent) OccurredAt() time.Time {
	return e.At
}
