package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/vehicle"

	"github.com/robfig/cron/v3"
)

const MaintenanceScanJobName = "maintenance_scan"

// MaintenanceDueLister is satisfied by queries.ListMaintenanceDueVehiclesQueryHandler.
type MaintenanceDueLister interface {
	Handle(ctx context.Context, query queries.ListMaintenanceDueVehiclesQuery) ([]*vehicle.Vehicle, error)
}

type MaintenanceScanJob struct {
	handler  MaintenanceDueLister
	observer Observer
	spec     string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewMaintenanceScanJob(handler MaintenanceDueLister, observer Observer, spec string, logger *slog.Logger) *MaintenanceScanJob {
	if observer == nil {
		observer = nopObserver{}
	}
	logger = logger.With("component", MaintenanceScanJobName+"_job")
	return &MaintenanceScanJob{
		handler:  handler,
		observer: observer,
		spec:     spec,
		timeout:  defaultRunTimeout,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Run counts the vehicles of all agencies that are due for maintenance today.
// The gauge keeps its previous value when the scan fails.
func (j *MaintenanceScanJob) Run(ctx context.Context) ([]*vehicle.Vehicle, error) {
	started := time.Now()

	due, err := j.run(ctx)

	j.observer.ObserveJob(MaintenanceScanJobName, time.Since(started), err)
	if err != nil {
		return nil, err
	}

	j.observer.SetMaintenanceDue(len(due))
	for _, v := range due {
		j.logger.InfoContext(ctx, "vehicle due for maintenance",
			"agencyId", v.AgencyID(),
			"vehicleId", v.ID(),
			"plateNumber", v.PlateNumber(),
		)
	}
	return due, nil
}

func (j *MaintenanceScanJob) run(ctx context.Context) ([]*vehicle.Vehicle, error) {
	query, err := queries.NewListMaintenanceDueVehiclesQuery("", time.Time{})
	if err != nil {
		return nil, err
	}
	return j.handler.Handle(ctx, query)
}

func (j *MaintenanceScanJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Maintenance scan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Maintenance scan job started", "schedule", j.spec)
	return nil
}

func (j *MaintenanceScanJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Maintenance scan job stopped")
}
