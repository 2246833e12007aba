package jobs

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Observer receives job results. *observability.Metrics implements it.
type Observer interface {
	ObserveJob(job string, took time.Duration, err error)
	AddDelayedEntries(n int)
	SetMaintenanceDue(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveJob(string, time.Duration, error) {}
func (nopObserver) AddDelayedEntries(int)                   {}
func (nopObserver) SetMaintenanceDue(int)                   {}

const defaultRunTimeout = 30 * time.Second

func newCron(logger *slog.Logger) *cron.Cron {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}
