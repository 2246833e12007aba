package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/vehicle"
	"dispatch/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMarker struct {
	mock.Mock
}

func (m *MockMarker) Handle(ctx context.Context, cmd commands.MarkDelayedEntriesCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

type MockLister struct {
	mock.Mock
}

func (m *MockLister) Handle(ctx context.Context, query queries.ListMaintenanceDueVehiclesQuery) ([]*vehicle.Vehicle, error) {
	args := m.Called(ctx, query)
	due, _ := args.Get(0).([]*vehicle.Vehicle)
	return due, args.Error(1)
}

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveJob(job string, took time.Duration, err error) {
	m.Called(job, took, err)
}

func (m *MockObserver) AddDelayedEntries(n int) {
	m.Called(n)
}

func (m *MockObserver) SetMaintenanceDue(n int) {
	m.Called(n)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduleDelayJob_Run(t *testing.T) {
	t.Run("should sweep all agencies and report the count", func(t *testing.T) {
		marker, observer := &MockMarker{}, &MockObserver{}
		marker.On("Handle", mock.Anything, mock.Anything).Return(3, nil)
		observer.On("ObserveJob", jobs.ScheduleDelayJobName, mock.Anything, nil).Return()
		observer.On("AddDelayedEntries", 3).Return()
		job := jobs.NewScheduleDelayJob(marker, observer, "0 * * * * *", discard())

		marked, err := job.Run(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 3, marked)
		marker.AssertExpectations(t)
		observer.AssertExpectations(t)

		cmd, ok := marker.Calls[0].Arguments.Get(1).(commands.MarkDelayedEntriesCommand)
		require.True(t, ok)
		assert.Empty(t, cmd.AgencyID())
	})

	t.Run("should report partial progress with the failure", func(t *testing.T) {
		failure := errors.New("store down")
		marker, observer := &MockMarker{}, &MockObserver{}
		marker.On("Handle", mock.Anything, mock.Anything).Return(1, failure)
		observer.On("ObserveJob", jobs.ScheduleDelayJobName, mock.Anything, failure).Return()
		observer.On("AddDelayedEntries", 1).Return()
		job := jobs.NewScheduleDelayJob(marker, observer, "0 * * * * *", discard())

		marked, err := job.Run(t.Context())

		require.ErrorIs(t, err, failure)
		assert.Equal(t, 1, marked)
		observer.AssertExpectations(t)
	})
}

func TestMaintenanceScanJob_Run(t *testing.T) {
	newVehicle := func(t *testing.T) *vehicle.Vehicle {
		t.Helper()
		v, err := vehicle.NewVehicle(kernel.NewUUID(), "agency-1", vehicle.Spec{
			Name:        "Gazelle",
			PlateNumber: "001AAA02",
			Capacity:    18,
		}, vehicle.MaintenancePlan{}, time.Now())
		require.NoError(t, err)
		return v
	}

	t.Run("should set the gauge to the number of due vehicles", func(t *testing.T) {
		lister, observer := &MockLister{}, &MockObserver{}
		lister.On("Handle", mock.Anything, mock.Anything).Return([]*vehicle.Vehicle{newVehicle(t), newVehicle(t)}, nil)
		observer.On("ObserveJob", jobs.MaintenanceScanJobName, mock.Anything, nil).Return()
		observer.On("SetMaintenanceDue", 2).Return()
		job := jobs.NewMaintenanceScanJob(lister, observer, "0 0 * * * *", discard())

		due, err := job.Run(t.Context())

		require.NoError(t, err)
		assert.Len(t, due, 2)
		observer.AssertExpectations(t)
	})

	t.Run("should keep the gauge when the scan fails", func(t *testing.T) {
		failure := errors.New("store down")
		lister, observer := &MockLister{}, &MockObserver{}
		lister.On("Handle", mock.Anything, mock.Anything).Return(nil, failure)
		observer.On("ObserveJob", jobs.MaintenanceScanJobName, mock.Anything, failure).Return()
		job := jobs.NewMaintenanceScanJob(lister, observer, "0 0 * * * *", discard())

		_, err := job.Run(t.Context())

		require.ErrorIs(t, err, failure)
		observer.AssertNotCalled(t, "SetMaintenanceDue", mock.Anything)
	})
}

func TestJobManager(t *testing.T) {
	t.Run("should refuse an invalid schedule and stop started jobs", func(t *testing.T) {
		delay := jobs.NewScheduleDelayJob(&MockMarker{}, nil, "0 * * * * *", discard())
		scan := jobs.NewMaintenanceScanJob(&MockLister{}, nil, "not a schedule", discard())
		manager := jobs.NewJobManager(delay, scan)

		err := manager.StartAll()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "maintenance scan")
	})

	t.Run("should start and stop cleanly", func(t *testing.T) {
		delay := jobs.NewScheduleDelayJob(&MockMarker{}, nil, "@every 1h", discard())
		scan := jobs.NewMaintenanceScanJob(&MockLister{}, nil, "@every 1h", discard())
		manager := jobs.NewJobManager(delay, scan)

		require.NoError(t, manager.StartAll())
		manager.StopAll()
	})
}
