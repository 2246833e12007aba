// Package gormrepo is the generic GORM repository shared by every entity
// kind. Per-kind packages only supply the table DTO and its mapping.
package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync/atomic"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

var savepointSeq atomic.Uint64

// Mapper converts between an aggregate and its table row.
type Mapper[T any, D any] struct {
	ToDTO    func(T) (D, error)
	ToDomain func(D) (T, error)
}

// Options configure one repository instance.
type Options struct {
	// Param names the id in not-found errors, e.g. "orderId".
	Param string
	// InTransaction makes every write run behind a savepoint.
	InTransaction bool
	Tracker       ports.AggregateTracker
	Now           func() time.Time
}

// Repository stores aggregates of type T as rows of type D.
//
// Writes are upserts on the primary key. Inside a transaction each write is
// wrapped in a SAVEPOINT and rolled back to it on failure, so the caller can
// retry the write without the whole transaction being aborted.
type Repository[T ports.Entity[T], D any] struct {
	db     *gorm.DB
	mapper Mapper[T, D]
	opts   Options
}

func New[T ports.Entity[T], D any](db *gorm.DB, mapper Mapper[T, D], opts Options) *Repository[T, D] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Repository[T, D]{
		db:     db,
		mapper: mapper,
		opts:   opts,
	}
}

func (r *Repository[T, D]) Put(ctx context.Context, entity T) (T, error) {
	var zero T
	if err := entity.Validate(); err != nil {
		return zero, err
	}

	// The caller's entity is stamped only once the row is written.
	stamp := r.opts.Now().UTC().Truncate(time.Microsecond)
	stored := entity.Clone()
	stored.Touch(stamp)
	dto, err := r.mapper.ToDTO(stored)
	if err != nil {
		return zero, err
	}

	err = r.write(ctx, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
	})
	if err != nil {
		return zero, r.classify(err, entity.ID())
	}

	entity.Touch(stamp)
	if r.opts.Tracker != nil {
		r.opts.Tracker.Track(entity)
	}
	return stored, nil
}

func (r *Repository[T, D]) Get(ctx context.Context, id kernel.UUID) (T, error) {
	var zero T
	if err := id.Validate(); err != nil {
		return zero, err
	}

	var dto D
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, errs.NewObjectNotFoundError(r.opts.Param, id)
		}
		return zero, err
	}

	return r.mapper.ToDomain(dto)
}

// List reads the matching rows when the sequence is ranged over. Rows are
// fetched before the first yield so the caller may write through the same
// transaction while iterating.
func (r *Repository[T, D]) List(ctx context.Context, opts ports.ListOptions[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		dtos, err := r.fetch(ctx, opts.Agency)
		if err != nil {
			yield(zero, err)
			return
		}

		matched := make([]T, 0, len(dtos))
		for _, dto := range dtos {
			entity, mapErr := r.mapper.ToDomain(dto)
			if mapErr != nil {
				yield(zero, mapErr)
				return
			}
			if opts.Where != nil && !opts.Where(entity) {
				continue
			}
			if opts.OrderBy == nil {
				if !yield(entity, nil) {
					return
				}
				continue
			}
			matched = append(matched, entity)
		}

		if opts.OrderBy == nil {
			return
		}
		slices.SortStableFunc(matched, opts.OrderBy)
		for _, entity := range matched {
			if !yield(entity, nil) {
				return
			}
		}
	}
}

func (r *Repository[T, D]) fetch(ctx context.Context, agency kernel.AgencyID) ([]D, error) {
	query := r.db.WithContext(ctx).Model(new(D))
	if agency != "" {
		query = query.Where("agency_id = ?", agency.String())
	}

	rows, err := query.Order("created_at, id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dtos []D
	for rows.Next() {
		var dto D
		if err = query.ScanRows(rows, &dto); err != nil {
			return nil, err
		}
		dtos = append(dtos, dto)
	}
	return dtos, rows.Err()
}

func (r *Repository[T, D]) write(ctx context.Context, fn func(db *gorm.DB) error) error {
	db := r.db.WithContext(ctx)
	if !r.opts.InTransaction {
		return fn(db)
	}

	name := fmt.Sprintf("put_%d", savepointSeq.Add(1))
	if err := db.SavePoint(name).Error; err != nil {
		return err
	}
	if err := fn(db); err != nil {
		if rbErr := db.RollbackTo(name).Error; rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

// classify turns unique violations into validation errors; everything else is
// returned unchanged so callers can decide whether it is transient.
func (r *Repository[T, D]) classify(err error, id kernel.UUID) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errs.NewValueIsInvalidErrorWithCause(r.opts.Param, fmt.Errorf("%s conflicts: %w", id, err))
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewValueIsInvalidErrorWithCause(r.opts.Param, fmt.Errorf("%s conflicts: %w", id, err))
	}
	return err
}
