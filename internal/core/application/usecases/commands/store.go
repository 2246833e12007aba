package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/sethvargo/go-retry"
)

// permanentErrors are outcomes the store reached on purpose; retrying them
// cannot change the answer.
var permanentErrors = []error{
	errs.ErrObjectNotFound,
	errs.ErrValueIsInvalid,
	errs.ErrValueIsRequired,
	errs.ErrValueIsOutOfRange,
	errs.ErrIllegalTransition,
	errs.ErrPreconditionFailed,
	errs.ErrResourceUnavailable,
	errs.ErrAlreadyDecided,
	errs.ErrStoreUnavailable,
}

func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	for _, permanent := range permanentErrors {
		if errors.Is(err, permanent) {
			return false
		}
	}
	return true
}

// withRetry runs fn and retries it once after delay when it fails for a
// reason that may go away. A failure that survives the retry becomes an
// errs.StoreUnavailableError.
func withRetry[T any](ctx context.Context, delay time.Duration, op string, fn func(context.Context) (T, error)) (T, error) {
	if delay <= 0 {
		delay = time.Millisecond
	}

	var (
		out       T
		transient bool
	)
	err := retry.Do(ctx, retry.WithMaxRetries(1, retry.NewConstant(delay)), func(ctx context.Context) error {
		v, err := fn(ctx)
		if err == nil {
			out, transient = v, false
			return nil
		}

		transient = isTransient(err)
		if transient {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if transient && ctx.Err() == nil {
			return out, errs.NewStoreUnavailableError(op, err)
		}
		return out, err
	}
	return out, nil
}

func put[T ports.Entity[T]](ctx context.Context, s Settings, repo ports.Repository[T], entity T) (T, error) {
	if err := entity.Validate(); err != nil {
		var zero T
		return zero, err
	}
	return withRetry(ctx, s.RetryDelay, "put", func(ctx context.Context) (T, error) {
		return repo.Put(ctx, entity)
	})
}

// get loads an entity of the given agency. Entities of other agencies are
// reported as not found.
func get[T ports.Entity[T]](
	ctx context.Context,
	s Settings,
	repo ports.Repository[T],
	agency kernel.AgencyID,
	param string,
	id kernel.UUID,
) (T, error) {
	var zero T

	entity, err := withRetry(ctx, s.RetryDelay, "get", func(ctx context.Context) (T, error) {
		return repo.Get(ctx, id)
	})
	if err != nil {
		return zero, err
	}
	if entity.AgencyID() != agency {
		return zero, errs.NewObjectNotFoundError(param, id)
	}
	return entity, nil
}

func collect[T ports.Entity[T]](ctx context.Context, s Settings, repo ports.Repository[T], opts ports.ListOptions[T]) ([]T, error) {
	return withRetry(ctx, s.RetryDelay, "list", func(ctx context.Context) ([]T, error) {
		var out []T
		for entity, err := range repo.List(ctx, opts) {
			if err != nil {
				return nil, err
			}
			out = append(out, entity)
		}
		return out, nil
	})
}

func commit(ctx context.Context, tx TxManager) error {
	if err := tx.Commit(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return errs.NewStoreUnavailableError("commit", err)
	}
	return nil
}
