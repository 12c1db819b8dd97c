package processor

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"gametracker/library-service/internal/app/library/entity"
	"gametracker/pkg/logger"
	"gametracker/pkg/metrics"
)

const reportJob = "library_report"

// ReportGenerator строит и сохраняет отчет по библиотеке
type ReportGenerator interface {
	Generate(ctx context.Context) (*entity.LibraryReport, error)
}

type CronScheduler struct {
	cron     *cron.Cron
	chain    cron.Chain
	reporter ReportGenerator
	log      zerolog.Logger
}

func NewCronScheduler(reporter ReportGenerator) *CronScheduler {
	log := logger.Component("cron")
	c := cron.New(cron.WithLogger(cronLogger{log: log}))

	return &CronScheduler{
		cron:     c,
		chain:    cron.NewChain(cron.SkipIfStillRunning(cronLogger{log: log})),
		reporter: reporter,
		log:      log,
	}
}

// Start регистрирует задачу отчета и сразу строит первый отчет
// Первый запуск и запуски по расписанию идут через одну обертку SkipIfStillRunning,
// поэтому тик, пришедший во время первого отчета, пропускается
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	s.log.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	job := s.chain.Then(cron.FuncJob(func() { s.runReport(ctx) }))
	if _, err := s.cron.AddJob(schedule, job); err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.log.Info().Msg("Cron scheduler started")

	job.Run()
	return nil
}

func (s *CronScheduler) Stop() {
	s.log.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

func (s *CronScheduler) runReport(ctx context.Context) {
	_, err := s.reporter.Generate(ctx)
	metrics.RecordCronRun(reportJob, err)
	if err != nil {
		s.log.Error().Err(err).Str("job", reportJob).Msg("Cron job failed")
		return
	}
	s.log.Debug().Str("job", reportJob).Msg("Cron job completed")
}

// cronLogger передает журнал cron в zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
