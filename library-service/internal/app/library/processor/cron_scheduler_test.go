package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gametracker/library-service/internal/app/library/entity"
)

// MockReportGenerator мок для ReportGenerator
type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) Generate(ctx context.Context) (*entity.LibraryReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LibraryReport), args.Error(1)
}

// blockingReporter держит Generate, пока тест не закроет release
type blockingReporter struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newBlockingReporter() *blockingReporter {
	return &blockingReporter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (r *blockingReporter) Generate(context.Context) (*entity.LibraryReport, error) {
	r.calls.Add(1)
	select {
	case r.started <- struct{}{}:
	default:
	}
	<-r.release
	return &entity.LibraryReport{}, nil
}

func TestNewCronScheduler(t *testing.T) {
	reporter := new(MockReportGenerator)

	scheduler := NewCronScheduler(reporter)

	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, reporter, scheduler.reporter)
	assert.Empty(t, scheduler.GetEntries())
}

func TestCronScheduler_Start_Success(t *testing.T) {
	reporter := new(MockReportGenerator)
	scheduler := NewCronScheduler(reporter)

	reporter.On("Generate", mock.Anything).Return(&entity.LibraryReport{}, nil)

	err := scheduler.Start(context.Background(), "*/5 * * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)
	// Первый отчет строится сразу при старте
	reporter.AssertNumberOfCalls(t, "Generate", 1)

	scheduler.Stop()
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	reporter := new(MockReportGenerator)
	scheduler := NewCronScheduler(reporter)

	err := scheduler.Start(context.Background(), "invalid cron expression")

	assert.Error(t, err)
	reporter.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestCronScheduler_Start_InitialReportError(t *testing.T) {
	reporter := new(MockReportGenerator)
	scheduler := NewCronScheduler(reporter)

	reporter.On("Generate", mock.Anything).Return(nil, errors.New("redis down"))

	err := scheduler.Start(context.Background(), "*/5 * * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
}

func TestCronScheduler_JobExecution(t *testing.T) {
	reporter := new(MockReportGenerator)
	scheduler := NewCronScheduler(reporter)
	defer scheduler.Stop()

	reporter.On("Generate", mock.Anything).Return(&entity.LibraryReport{}, nil)

	require.NoError(t, scheduler.Start(context.Background(), "*/5 * * * *"))
	entries := scheduler.GetEntries()
	require.Len(t, entries, 1)

	// Тик расписания выполняет ту же задачу, что и первый запуск
	entries[0].Job.Run()

	reporter.AssertNumberOfCalls(t, "Generate", 2)
}

func TestCronScheduler_JobExecution_WithError(t *testing.T) {
	reporter := new(MockReportGenerator)
	scheduler := NewCronScheduler(reporter)
	defer scheduler.Stop()

	reporter.On("Generate", mock.Anything).Return(nil, errors.New("redis down"))

	require.NoError(t, scheduler.Start(context.Background(), "*/5 * * * *"))
	entries := scheduler.GetEntries()
	require.Len(t, entries, 1)

	assert.NotPanics(t, entries[0].Job.Run)
	reporter.AssertNumberOfCalls(t, "Generate", 2)
}

func TestCronScheduler_ScheduledTick(t *testing.T) {
	reporter := newBlockingReporter()
	close(reporter.release)
	scheduler := NewCronScheduler(reporter)
	defer scheduler.Stop()

	// cron округляет интервал @every до секунды
	require.NoError(t, scheduler.Start(context.Background(), "@every 1s"))

	assert.Eventually(t, func() bool {
		return reporter.calls.Load() >= 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestCronScheduler_TickSkippedWhileInitialReportRuns(t *testing.T) {
	reporter := newBlockingReporter()
	scheduler := NewCronScheduler(reporter)
	defer scheduler.Stop()

	started := make(chan error, 1)
	go func() { started <- scheduler.Start(context.Background(), "*/5 * * * *") }()

	select {
	case <-reporter.started:
	case <-time.After(time.Second):
		t.Fatal("initial report was not started")
	}

	entries := scheduler.GetEntries()
	require.Len(t, entries, 1)

	// Первый отчет еще строится: тик должен быть пропущен, а не ждать
	entries[0].Job.Run()
	assert.Equal(t, int32(1), reporter.calls.Load())

	close(reporter.release)
	require.NoError(t, <-started)

	entries[0].Job.Run()
	assert.Equal(t, int32(2), reporter.calls.Load())
}

func TestCronScheduler_ContextCancellation(t *testing.T) {
	reporter := new(MockReportGenerator)
	scheduler := NewCronScheduler(reporter)

	ctx, cancel := context.WithCancel(context.Background())
	reporter.On("Generate", mock.Anything).Return(&entity.LibraryReport{}, nil)

	assert.NoError(t, scheduler.Start(ctx, "*/5 * * * *"))

	cancel()
	assert.NotPanics(t, scheduler.Stop)
}
