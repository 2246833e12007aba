package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/schedule"
	"dispatch/internal/core/ports"

	"go.uber.org/multierr"
)

// MarkDelayedEntriesCommandHandler moves overdue planned entries to delayed.
// Each entry is updated in its own unit of work under its order's lock, so a
// failure on one entry does not hold back the others.
type MarkDelayedEntriesCommandHandler struct {
	uowFactory UoWFactory
	locker     ports.ResourceLocker
	settings   Settings
}

func NewMarkDelayedEntriesCommandHandler(
	uowFactory UoWFactory,
	locker ports.ResourceLocker,
	settings Settings,
) MarkDelayedEntriesCommandHandler {
	return MarkDelayedEntriesCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		settings:   settings,
	}
}

// Handle returns how many entries were marked. The error aggregates the
// failures of individual entries.
func (h MarkDelayedEntriesCommandHandler) Handle(ctx context.Context, cmd MarkDelayedEntriesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.settings.now()
	overdue, err := h.overdue(ctx, cmd.AgencyID(), now)
	if err != nil {
		return 0, err
	}

	var (
		marked int
		failed error
	)
	for _, e := range overdue {
		if ctx.Err() != nil {
			return marked, multierr.Append(failed, ctx.Err())
		}

		ok, err := h.mark(ctx, e.ID(), e.OrderRef(), now)
		if err != nil {
			failed = multierr.Append(failed, err)
			continue
		}
		if ok {
			marked++
		}
	}
	return marked, failed
}

func (h MarkDelayedEntriesCommandHandler) overdue(
	ctx context.Context,
	agency kernel.AgencyID,
	now time.Time,
) ([]*schedule.Entry, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return collect(ctx, h.settings, uow.ScheduleRepository(), ports.ListOptions[*schedule.Entry]{
		Agency:  agency,
		Where:   func(e *schedule.Entry) bool { return isOverdue(e, now) },
		OrderBy: compareByCreation,
	})
}

// mark re-reads the entry under the lock; it may have been rescheduled or
// started since the listing.
func (h MarkDelayedEntriesCommandHandler) mark(
	ctx context.Context,
	entryID kernel.UUID,
	orderRef kernel.UUID,
	now time.Time,
) (bool, error) {
	unlock, err := h.locker.Lock(ctx, "order:"+orderRef.String())
	if err != nil {
		return false, err
	}
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ScheduleRepository()
	e, err := withRetry(ctx, h.settings.RetryDelay, "get", func(ctx context.Context) (*schedule.Entry, error) {
		return repo.Get(ctx, entryID)
	})
	if err != nil {
		return false, err
	}
	if !isOverdue(e, now) {
		return false, nil
	}

	if err = e.Transition(schedule.Delayed, now); err != nil {
		return false, err
	}
	if _, err = put(ctx, h.settings, repo, e); err != nil {
		return false, err
	}
	if err = commit(ctx, uow); err != nil {
		return false, err
	}
	return true, nil
}

func isOverdue(e *schedule.Entry, now time.Time) bool {
	return e.Status() == schedule.Planned && e.Slot().Start().Before(now)
}
