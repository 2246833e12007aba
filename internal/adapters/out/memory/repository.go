package memory

import (
	"context"
	"iter"
	"slices"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Repository is the generic in-memory store of one entity kind. Rows are kept
// as private copies; callers never share an instance with the store.
type Repository[T ports.Entity[T]] struct {
	db    *Database
	table string
	param string
	uow   *UnitOfWork
}

func newRepository[T ports.Entity[T]](db *Database, table, param string, uow *UnitOfWork) *Repository[T] {
	return &Repository[T]{
		db:    db,
		table: table,
		param: param,
		uow:   uow,
	}
}

func (r *Repository[T]) Put(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if err := entity.Validate(); err != nil {
		return zero, err
	}

	entity.Touch(r.db.now())
	stored := entity.Clone()

	if r.uow.inTransaction() {
		r.uow.stage(stagedWrite{table: r.table, id: entity.ID(), row: stored})
		r.uow.Track(entity)
		return stored.Clone(), nil
	}

	r.db.apply([]stagedWrite{{table: r.table, id: entity.ID(), row: stored}})
	r.uow.publish(ctx, entity)
	return stored.Clone(), nil
}

func (r *Repository[T]) Get(ctx context.Context, id kernel.UUID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if row, ok := r.uow.staged(r.table, id); ok {
		return row.(T).Clone(), nil
	}

	r.db.mu.RLock()
	row, ok := r.db.get(r.table, id)
	r.db.mu.RUnlock()
	if !ok {
		return zero, errs.NewObjectNotFoundError(r.param, id)
	}
	return row.(T).Clone(), nil
}

func (r *Repository[T]) List(ctx context.Context, opts ports.ListOptions[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if err := ctx.Err(); err != nil {
			var zero T
			yield(zero, err)
			return
		}

		r.db.mu.RLock()
		committed := r.db.rows(r.table)
		r.db.mu.RUnlock()

		rows := r.uow.overlay(r.table, committed)

		matched := make([]T, 0, len(rows))
		for _, row := range rows {
			entity := row.(T)
			if opts.Agency != "" && entity.AgencyID() != opts.Agency {
				continue
			}
			if opts.Where != nil && !opts.Where(entity) {
				continue
			}
			matched = append(matched, entity)
		}
		if opts.OrderBy != nil {
			slices.SortStableFunc(matched, opts.OrderBy)
		}

		for _, entity := range matched {
			if !yield(entity.Clone(), nil) {
				return
			}
		}
	}
}
