// Package quote contains the QuoteRequest aggregate: a customer's request for
// a price that an agency administrator approves or rejects.
//
// A quote starts pending and is decided exactly once:
//
//	pending ──┬──> approved
//	          └──> rejected
//
// Once decided, only the administrator notes may still change. Approval does
// not create an order by itself; the order is created from the approved quote
// in a separate step.
package quote
