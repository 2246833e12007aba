// Package schedule contains the ScheduleEntry aggregate: the binding of one
// order to a driver, a vehicle and a time window.
//
// Entry lifecycle:
//
//	planned ─────┬──> in_progress ──┬──> completed
//	   │   ▲     │                  └──> canceled
//	   │   │     └──> canceled
//	   ▼   │
//	delayed ──┬──> in_progress
//	          └──> canceled
//
// Only planned and in_progress entries hold their driver and vehicle; two such
// entries of the same resource must never overlap. Entries are never deleted.
package schedule
