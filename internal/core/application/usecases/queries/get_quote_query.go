package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/pkg/guard"
)

var ErrGetQuoteQueryIsNotConstructed = errors.New(
	"GetQuoteQuery must be created via NewGetQuoteQuery constructor",
)

type GetQuoteQuery struct {
	agencyID kernel.AgencyID
	quoteID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetQuoteQuery(agencyID kernel.AgencyID, quoteID kernel.UUID) (GetQuoteQuery, error) {
	if err := errors.Join(agencyID.Validate(), quoteID.Validate()); err != nil {
		return GetQuoteQuery{}, err
	}
	return GetQuoteQuery{
		agencyID: agencyID,
		quoteID:  quoteID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetQuoteQuery) Validate() error {
	return q.guard.Validate(ErrGetQuoteQueryIsNotConstructed)
}

type GetQuoteQueryHandler struct {
	readers ReaderFactory
}

func NewGetQuoteQueryHandler(readers ReaderFactory) GetQuoteQueryHandler {
	return GetQuoteQueryHandler{readers: readers}
}

// Handle returns the quote, or an errs.ObjectNotFoundError when it is unknown
// or belongs to another agency.
func (h GetQuoteQueryHandler) Handle(ctx context.Context, query GetQuoteQuery) (*quote.QuoteRequest, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return getOwned(ctx, h.readers.Create().QuoteRepository(), query.agencyID, "quoteId", query.quoteID)
}
