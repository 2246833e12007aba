package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuote(t *testing.T) *quote.QuoteRequest {
	t.Helper()
	customer, err := kernel.NewContact("Aruzhan", "+77010000000", "aru@example.kz")
	require.NoError(t, err)
	pickup, err := kernel.NewAddress("12 Abay Ave, Almaty")
	require.NoError(t, err)
	delivery, err := kernel.NewAddress("5 Dostyk St, Almaty")
	require.NoError(t, err)

	q, err := quote.NewQuoteRequest(kernel.NewUUID(), agency, customer, pickup, delivery,
		time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(150000), quote.PriceBreakdown{}, now)
	require.NoError(t, err)
	return q
}

func TestQuoteApproval_Decide(t *testing.T) {
	approval := services.NewQuoteApproval()

	t.Run("should approve once and refuse a second decision", func(t *testing.T) {
		q := newQuote(t)

		require.NoError(t, approval.Decide(q, services.DecisionApprove, quote.Review{ReviewedBy: "admin"}, now))
		assert.Equal(t, quote.Approved, q.Status())
		require.NotNil(t, q.ReviewedAt())

		err := approval.Decide(q, services.DecisionReject, quote.Review{ReviewedBy: "admin"}, now.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrAlreadyDecided)
		assert.Equal(t, quote.Approved, q.Status())
		assert.Equal(t, now, *q.ReviewedAt())
	})

	t.Run("should reject with notes", func(t *testing.T) {
		q := newQuote(t)

		require.NoError(t, approval.Decide(q, services.DecisionReject, quote.Review{Notes: "out of area"}, now))

		assert.Equal(t, quote.Rejected, q.Status())
		assert.Equal(t, "out of area", q.AdminNotes())
	})

	t.Run("should refuse an unknown decision", func(t *testing.T) {
		q := newQuote(t)

		require.ErrorIs(t, approval.Decide(q, services.DecisionUnknown, quote.Review{}, now), errs.ErrValueIsInvalid)
		assert.Equal(t, quote.Pending, q.Status())
	})
}

func TestParseDecision(t *testing.T) {
	for _, s := range []string{"approve", "Approved", " approve "} {
		d, err := services.ParseDecision(s)
		require.NoError(t, err)
		assert.Equal(t, services.DecisionApprove, d)
	}

	d, err := services.ParseDecision("rejected")
	require.NoError(t, err)
	assert.Equal(t, services.DecisionReject, d)

	_, err = services.ParseDecision("maybe")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
