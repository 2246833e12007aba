// Package guard holds the constructor guard shared by value objects and
// command objects.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor. The zero value
// is "not constructed", so a struct literal that skipped the constructor fails
// its Validate call.
//
// Example:
//
//	type Window struct {
//	    start time.Time
//	    guard guard.ConstructorGuard
//	}
//
//	func (w Window) Validate() error {
//	    return w.guard.Validate(ErrWindowIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guarded object was not created through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
