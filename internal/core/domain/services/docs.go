// Package services holds the dispatch rules that span more than one aggregate.
//
// The package includes:
//   - AvailabilityCalculator: derives whether a driver or vehicle is free at an instant
//   - AssignmentEngine: binds a driver and a vehicle to an order without double-booking
//   - StatusMachine: moves an order and mirrors the change onto its schedule entry
//   - QuoteApproval: decides a pending quote exactly once
//
// The services are pure: they take loaded aggregates, mutate them in memory and
// never touch storage. Loading, locking and persisting is the job of the
// application commands.
package services
