// Package kernel provides the value objects shared by every aggregate of the
// dispatch domain.
//
// The package includes:
//   - UUID: entity identifier
//   - Address: a validated postal address used for pickup and delivery
//   - Contact: the customer's name, phone and email
//   - Slot: a scheduled time window (date, clock time and duration)
//   - Amount helpers: non-negative decimal prices
//   - DomainEvent and EventRecorder: events raised by aggregates and
//     published after their unit of work commits
//   - ResourceKind: the two kinds of dispatchable resources
//
// Value objects are immutable and built through constructors guarded by
// guard.ConstructorGuard.
package kernel
