package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places kept for prices.
const AmountScale = 2

// ValidateAmount rejects negative prices and prices with more than two
// decimal places.
func ValidateAmount(name string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", amount))
	}
	if !amount.Equal(amount.Round(AmountScale)) {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s has more than %d decimal places", amount, AmountScale))
	}
	return nil
}
