package commands

import (
	"context"

	"dispatch/internal/core/domain/model/quote"
)

// SubmitQuoteCommandHandler stores a new quote request. The total price is
// derived from the base price and the surcharges.
type SubmitQuoteCommandHandler struct {
	uowFactory QuoteUoWFactory
	settings   Settings
}

func NewSubmitQuoteCommandHandler(uowFactory QuoteUoWFactory, settings Settings) SubmitQuoteCommandHandler {
	return SubmitQuoteCommandHandler{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

func (h SubmitQuoteCommandHandler) Handle(ctx context.Context, cmd SubmitQuoteCommand) (*quote.QuoteRequest, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	data := cmd.Data()
	q, err := quote.NewQuoteRequest(
		cmd.QuoteID(),
		cmd.AgencyID(),
		data.Customer,
		data.Pickup,
		data.Delivery,
		data.PreferredDate,
		data.BasePrice,
		data.Breakdown,
		h.settings.now(),
	)
	if err != nil {
		return nil, err
	}
	if data.DeclaredTotal != nil {
		if err = q.CheckDeclaredTotal(*data.DeclaredTotal); err != nil {
			return nil, err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, err := put(ctx, h.settings, uow.QuoteRepository(), q)
	if err != nil {
		return nil, err
	}

	if err = commit(ctx, uow); err != nil {
		return nil, err
	}
	return stored, nil
}
