package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsOutOfRange   = errors.New("value is out of range")
	ErrValueIsRequired     = errors.New("value is required")
	ErrIllegalTransition   = errors.New("illegal transition")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrResourceUnavailable = errors.New("resource unavailable")
	ErrAlreadyDecided      = errors.New("already decided")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// IsValidation reports whether err is one of the value validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange)
}

// ObjectNotFoundError is returned when an entity with the given id does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a value breaks a domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

// Unwrap exposes the sentinel and, when set, the rule that was broken.
func (e *ValueIsInvalidError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrValueIsInvalid}
	}
	return []error{ErrValueIsInvalid, e.Cause}
}

// ValueIsOutOfRangeError is returned when a value lies outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
	}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
		Cause:     cause,
	}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// IllegalTransitionError is returned when a status change is not in the
// entity's transition table.
type IllegalTransitionError struct {
	Entity string
	From   string
	To     string
}

func NewIllegalTransitionError(entity, from, to string) *IllegalTransitionError {
	return &IllegalTransitionError{
		Entity: entity,
		From:   from,
		To:     to,
	}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrIllegalTransition, e.Entity, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// PreconditionFailedError is returned when a legal operation is attempted
// while a required condition does not hold.
type PreconditionFailedError struct {
	ParamName string
	Cause     error
}

func NewPreconditionFailedError(paramName string, cause error) *PreconditionFailedError {
	return &PreconditionFailedError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *PreconditionFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrPreconditionFailed, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPreconditionFailed, e.ParamName)
}

// Unwrap exposes both the sentinel and the cause.
func (e *PreconditionFailedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPreconditionFailed}
	}
	return []error{ErrPreconditionFailed, e.Cause}
}

// ResourceUnavailableError is returned when a driver or vehicle cannot take
// the requested slot.
type ResourceUnavailableError struct {
	Resource string
	ID       any
	Cause    error
}

func NewResourceUnavailableError(resource string, id any, cause error) *ResourceUnavailableError {
	return &ResourceUnavailableError{
		Resource: resource,
		ID:       id,
		Cause:    cause,
	}
}

func (e *ResourceUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %v)", ErrResourceUnavailable, e.Resource, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrResourceUnavailable, e.Resource, e.ID)
}

func (e *ResourceUnavailableError) Unwrap() error {
	return ErrResourceUnavailable
}

// AlreadyDecidedError is returned when a decision is made on a quote that
// left the pending state.
type AlreadyDecidedError struct {
	ID     any
	Status string
}

func NewAlreadyDecidedError(id any, status string) *AlreadyDecidedError {
	return &AlreadyDecidedError{
		ID:     id,
		Status: status,
	}
}

func (e *AlreadyDecidedError) Error() string {
	return fmt.Sprintf("%s: %s is %s", ErrAlreadyDecided, e.ID, e.Status)
}

func (e *AlreadyDecidedError) Unwrap() error {
	return ErrAlreadyDecided
}

// StoreUnavailableError is returned when the entity store keeps failing after
// the retry budget is spent.
type StoreUnavailableError struct {
	Operation string
	Cause     error
}

func NewStoreUnavailableError(operation string, cause error) *StoreUnavailableError {
	return &StoreUnavailableError{
		Operation: operation,
		Cause:     cause,
	}
}

func (e *StoreUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrStoreUnavailable, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrStoreUnavailable, e.Operation)
}

// Unwrap exposes both the sentinel and the underlying store failure.
func (e *StoreUnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrStoreUnavailable}
	}
	return []error{ErrStoreUnavailable, e.Cause}
}

func sanitize(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return strings.ReplaceAll(s, "\n", " ")
}
