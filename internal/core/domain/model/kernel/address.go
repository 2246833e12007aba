package kernel

import (
	"strings"
	"unicode/utf8"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const AddressMaxLength = 512

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is a free-form postal address. Surrounding whitespace is trimmed;
// the result must be non-empty and at most AddressMaxLength characters.
type Address struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

func NewAddress(value string) (Address, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Address{}, errs.NewValueIsRequiredError("address")
	}
	if n := utf8.RuneCountInString(trimmed); n > AddressMaxLength {
		return Address{}, errs.NewValueIsOutOfRangeError("address length", n, 1, AddressMaxLength)
	}

	return Address{value: trimmed, guard: guard.NewConstructorGuard()}, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) String() string {
	return a.value
}

func (a Address) IsEqual(other Address) bool {
	return a.value == other.value
}
