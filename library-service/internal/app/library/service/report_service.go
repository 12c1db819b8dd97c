package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gametracker/library-service/internal/app/library/catalog"
	"gametracker/library-service/internal/app/library/entity"
	"gametracker/library-service/internal/app/library/repository"
	"gametracker/pkg/logger"
)

// ReportService строит сводку по библиотеке и сохраняет последнюю в Redis
type ReportService struct {
	source SnapshotSource
	repo   repository.ReportRepository
	now    func() time.Time
	log    zerolog.Logger
}

func NewReportService(source SnapshotSource, repo repository.ReportRepository) *ReportService {
	return &ReportService{
		source: source,
		repo:   repo,
		now:    time.Now,
		log:    logger.Component("report-service"),
	}
}

// Generate строит отчет по текущему снимку хранилища
// Отчет возвращается даже если сохранить его не удалось
func (s *ReportService) Generate(ctx context.Context) (*entity.LibraryReport, error) {
	report := catalog.BuildReport(s.source.Snapshot(), s.source.CurrentUserID())
	report.GeneratedAt = s.now()

	event := s.log.Info().
		Int("total_games", report.TotalGames).
		Int("total_reviews", report.TotalReviews)
	for _, status := range entity.PlayStatuses {
		event = event.Int(string(status), report.ByStatus[status])
	}
	if report.TopRated != nil {
		event = event.
			Str("top_rated", report.TopRated.Title).
			Float64("top_rating", report.TopRated.AverageRating)
	}
	event.Msg("Library report")

	if err := s.repo.SaveLatest(ctx, &report); err != nil {
		return &report, fmt.Errorf("failed to save report: %w", err)
	}
	return &report, nil
}

// Latest возвращает последний сохраненный отчет или nil, если его нет
func (s *ReportService) Latest(ctx context.Context) (*entity.LibraryReport, error) {
	report, err := s.repo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	return report, nil
}
