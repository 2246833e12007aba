package kernel

import (
	"strings"

	"dispatch/internal/pkg/errs"
)

const AgencyIDMaxLength = 64

// AgencyID scopes every read and write to one moving agency.
type AgencyID string

func NewAgencyID(value string) (AgencyID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errs.NewValueIsRequiredError("agencyId")
	}
	if len(value) > AgencyIDMaxLength {
		return "", errs.NewValueIsOutOfRangeError("agencyId length", len(value), 1, AgencyIDMaxLength)
	}
	return AgencyID(value), nil
}

func (a AgencyID) Validate() error {
	_, err := NewAgencyID(string(a))
	return err
}

func (a AgencyID) String() string {
	return string(a)
}
