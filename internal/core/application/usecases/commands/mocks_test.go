package commands_test

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// MockRepository echoes the written entity from Put when the expectation
// returns (nil, nil).
type MockRepository[T ports.Entity[T]] struct{ mock.Mock }

func (m *MockRepository[T]) Put(ctx context.Context, entity T) (T, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		if err := args.Error(1); err != nil {
			var zero T
			return zero, err
		}
		return entity.Clone(), nil
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[T]) Get(ctx context.Context, id kernel.UUID) (T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero T
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[T]) List(ctx context.Context, opts ports.ListOptions[T]) iter.Seq2[T, error] {
	args := m.Called(ctx, opts.Agency)
	return func(yield func(T, error) bool) {
		if err := args.Error(1); err != nil {
			var zero T
			yield(zero, err)
			return
		}
		items, _ := args.Get(0).([]T)
		for _, item := range items {
			if opts.Where != nil && !opts.Where(item) {
				continue
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) QuoteRepository() ports.QuoteRepository {
	args := m.Called()
	return args.Get(0).(ports.QuoteRepository)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) VehicleRepository() ports.VehicleRepository {
	args := m.Called()
	return args.Get(0).(ports.VehicleRepository)
}

func (m *MockUoW) ScheduleRepository() ports.ScheduleRepository {
	args := m.Called()
	return args.Get(0).(ports.ScheduleRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockQuoteUoWFactory struct{ mock.Mock }

func (m *MockQuoteUoWFactory) Create() commands.QuoteUoW {
	args := m.Called()
	return args.Get(0).(commands.QuoteUoW)
}

// recordingLocker grants every lock at once and remembers the keys.
type recordingLocker struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (l *recordingLocker) Lock(_ context.Context, keys ...string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.calls = append(l.calls, slices.Clone(keys))
	return func() {}, nil
}

type recordingObserver struct {
	mu          sync.Mutex
	outcomes    []string
	transitions []string
}

func (o *recordingObserver) ObserveAssignment(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveTransition(to string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, to)
}
