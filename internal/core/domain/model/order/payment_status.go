package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// PaymentStatus tracks whether the customer paid. It is bookkeeping only.
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:  "unknown",
		PaymentPending:  "pending",
		PaymentPaid:     "paid",
		PaymentRefunded: "refunded",
	}
}

func paymentTransitions() map[PaymentStatus]map[PaymentStatus]struct{} {
	//nolint:exhaustive // refunded is terminal
	return map[PaymentStatus]map[PaymentStatus]struct{}{
		PaymentPending: {PaymentPaid: {}, PaymentRefunded: {}},
		PaymentPaid:    {PaymentRefunded: {}},
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if status != PaymentUnknown && name == s {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment status", fmt.Errorf("%q is not a valid payment status", s))
}

func (s PaymentStatus) Validate() error {
	if _, ok := getPaymentStatusStrings()[s]; !ok || s == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s PaymentStatus) TransitionTo(to PaymentStatus) (PaymentStatus, error) {
	if _, ok := paymentTransitions()[s][to]; !ok {
		return s, errs.NewIllegalTransitionError("payment", s.String(), to.String())
	}
	return to, nil
}
