package commands

import (
	"context"

	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/domain/services"
)

// DecideQuoteCommandHandler runs the approval workflow. Approval does not
// create an order; see CreateOrderFromQuoteCommandHandler.
//
// Errors:
//   - errs.ErrObjectNotFound for an unknown quote or one of another agency
//   - errs.ErrAlreadyDecided when the quote is no longer pending
type DecideQuoteCommandHandler struct {
	uowFactory QuoteUoWFactory
	approval   services.QuoteApproval
	settings   Settings
}

func NewDecideQuoteCommandHandler(uowFactory QuoteUoWFactory, settings Settings) DecideQuoteCommandHandler {
	return DecideQuoteCommandHandler{
		uowFactory: uowFactory,
		approval:   services.NewQuoteApproval(),
		settings:   settings,
	}
}

func (h DecideQuoteCommandHandler) Handle(ctx context.Context, cmd DecideQuoteCommand) (*quote.QuoteRequest, error) {
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

	review := quote.Review{ReviewedBy: cmd.ReviewedBy(), Notes: cmd.Notes()}
	if err = h.approval.Decide(q, cmd.Decision(), review, h.settings.now()); err != nil {
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
