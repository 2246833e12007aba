package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const ScheduleDelayJobName = "schedule_delay"

// DelayedEntriesMarker is satisfied by commands.MarkDelayedEntriesCommandHandler.
type DelayedEntriesMarker interface {
	Handle(ctx context.Context, cmd commands.MarkDelayedEntriesCommand) (int, error)
}

// ScheduleDelayJob sweeps every agency for planned entries that should have
// started already.
type ScheduleDelayJob struct {
	handler  DelayedEntriesMarker
	observer Observer
	spec     string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewScheduleDelayJob(handler DelayedEntriesMarker, observer Observer, spec string, logger *slog.Logger) *ScheduleDelayJob {
	if observer == nil {
		observer = nopObserver{}
	}
	logger = logger.With("component", ScheduleDelayJobName+"_job")
	return &ScheduleDelayJob{
		handler:  handler,
		observer: observer,
		spec:     spec,
		timeout:  defaultRunTimeout,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Run performs one sweep and returns how many entries were marked delayed.
func (j *ScheduleDelayJob) Run(ctx context.Context) (int, error) {
	started := time.Now()

	marked, err := j.run(ctx)

	j.observer.ObserveJob(ScheduleDelayJobName, time.Since(started), err)
	j.observer.AddDelayedEntries(marked)
	if marked > 0 {
		j.logger.InfoContext(ctx, "schedule entries marked delayed", "count", marked)
	}
	return marked, err
}

func (j *ScheduleDelayJob) run(ctx context.Context) (int, error) {
	cmd, err := commands.NewMarkDelayedEntriesCommand("")
	if err != nil {
		return 0, err
	}
	return j.handler.Handle(ctx, cmd)
}

func (j *ScheduleDelayJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Schedule delay sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Schedule delay job started", "schedule", j.spec)
	return nil
}

// Stop waits for a running sweep to finish.
func (j *ScheduleDelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Schedule delay job stopped")
}
