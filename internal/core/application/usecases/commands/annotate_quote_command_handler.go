package commands

import (
	"context"

	"dispatch/internal/core/domain/model/quote"
)

type AnnotateQuoteCommandHandler struct {
	uowFactory QuoteUoWFactory
	settings   Settings
}

func NewAnnotateQuoteCommandHandler(uowFactory QuoteUoWFactory, settings Settings) AnnotateQuoteCommandHandler {
	return AnnotateQuoteCommandHandler{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

func (h AnnotateQuoteCommandHandler) Handle(ctx context.Context, cmd AnnotateQuoteCommand) (*quote.QuoteRequest, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.QuoteRepository()
	q, err := get(ctx, h.settings, repo, cmd.AgencyID(), "quoteId", cmd.QuoteID())
	if err != nil {
		return nil, err
	}
	if err = q.Annotate(cmd.Notes(), h.settings.now()); err != nil {
		return nil, err
	}

	stored, err := put(ctx, h.settings, repo, q)
	if err != nil {
		return nil, err
	}

	if err = commit(ctx, uow); err != nil {
		return nil, err
	}
	return stored, nil
}
