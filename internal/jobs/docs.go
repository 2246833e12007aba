// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field):
//
//  1. ScheduleDelayJob marks planned schedule entries whose window start has
//     passed as delayed.
//  2. MaintenanceScanJob counts active vehicles due for maintenance and
//     publishes the number as a gauge.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(delayJob, scanJob)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// A run that is still going when the next tick fires is skipped. Every run is
// bounded by a timeout and reported to the Observer.
package jobs
