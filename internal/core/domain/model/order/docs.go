// Package order provides the CustomerOrder aggregate and its lifecycle.
//
// The package includes:
//   - CustomerOrder: the aggregate root binding a customer, a package, a
//     service date and, once dispatched, a driver and a vehicle
//   - Status: the order state machine
//   - PaymentStatus: payment bookkeeping (no payment processing happens here)
//   - Package: the service package the customer selected
//
// Order lifecycle:
//
//	pending ──> confirmed ──> in_progress ──> completed
//	   │            │              │
//	   └────────────┴──────────────┴──────> canceled
//
// Key business rules:
//   - an order may only start (in_progress) once a driver and a vehicle are assigned
//   - completed and canceled are terminal
//   - resources may only be (re)assigned while the order is pending or confirmed
//   - orders are never deleted; cancellation is a status
package order
