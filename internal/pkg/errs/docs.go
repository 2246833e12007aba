// Package errs provides the error taxonomy of the dispatch service.
//
// Every error type follows the same shape:
//   - a sentinel error variable (e.g., ErrObjectNotFound)
//   - a struct type carrying the details
//   - constructor functions, with a cause where it makes sense
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Callers classify errors with errors.Is against the sentinels:
//   - ErrObjectNotFound: unknown id, or an id owned by another agency
//   - ErrValueIsInvalid, ErrValueIsRequired, ErrValueIsOutOfRange: validation failures (see IsValidation)
//   - ErrIllegalTransition: status change not present in the transition table
//   - ErrPreconditionFailed: legal transition attempted without its prerequisites
//   - ErrResourceUnavailable: driver or vehicle busy, unavailable or double-booked
//   - ErrAlreadyDecided: decision on a quote that is no longer pending
//   - ErrStoreUnavailable: persistent store failure after the retry budget
package errs
