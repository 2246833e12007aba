package driver

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

type Status int

const (
	Unknown Status = iota
	OnDuty
	OffDuty
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown: "unknown",
		OnDuty:  "on-duty",
		OffDuty: "off-duty",
	}
}

func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
