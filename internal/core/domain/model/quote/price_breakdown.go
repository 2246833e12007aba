package quote

import (
	"errors"
	"maps"
	"slices"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PriceBreakdown lists surcharges on top of the base price, keyed by reason
// (e.g. "extraFloors", "packing").
type PriceBreakdown map[string]decimal.Decimal

// Add adds quantity × unit to the surcharge for reason.
//
// Example:
//
//	b := quote.PriceBreakdown{}
//	_ = b.Add("extraFloors", 2, decimal.NewFromInt(20000)) // extraFloors = 40000
func (b PriceBreakdown) Add(reason string, quantity int64, unit decimal.Decimal) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("surcharge reason")
	}
	if quantity < 0 {
		return errs.NewValueIsOutOfRangeError("surcharge quantity", quantity, 0, "unbounded")
	}
	amount := unit.Mul(decimal.NewFromInt(quantity))
	if err := kernel.ValidateAmount("surcharge "+reason, amount); err != nil {
		return err
	}
	b[reason] = b[reason].Add(amount)
	return nil
}

// Sum totals every surcharge.
func (b PriceBreakdown) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range b {
		total = total.Add(amount)
	}
	return total
}

func (b PriceBreakdown) Validate() error {
	var err error
	for _, reason := range b.Reasons() {
		if strings.TrimSpace(reason) == "" {
			err = errors.Join(err, errs.NewValueIsRequiredError("surcharge reason"))
			continue
		}
		err = errors.Join(err, kernel.ValidateAmount("surcharge "+reason, b[reason]))
	}
	return err
}

// Reasons returns the surcharge reasons in lexical order.
func (b PriceBreakdown) Reasons() []string {
	return slices.Sorted(maps.Keys(b))
}

func (b PriceBreakdown) Clone() PriceBreakdown {
	if b == nil {
		return PriceBreakdown{}
	}
	return maps.Clone(b)
}
