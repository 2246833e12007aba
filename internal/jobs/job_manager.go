package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	scheduleDelayJob   *ScheduleDelayJob
	maintenanceScanJob *MaintenanceScanJob
}

func NewJobManager(scheduleDelayJob *ScheduleDelayJob, maintenanceScanJob *MaintenanceScanJob) *JobManager {
	return &JobManager{
		scheduleDelayJob:   scheduleDelayJob,
		maintenanceScanJob: maintenanceScanJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.scheduleDelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start schedule delay job: %w", err)
	}

	if err := jm.maintenanceScanJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.scheduleDelayJob.Stop()
		return fmt.Errorf("failed to start maintenance scan job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.maintenanceScanJob.Stop()
	jm.scheduleDelayJob.Stop()
}
