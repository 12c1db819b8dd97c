package repository

import (
	"context"
	"errors"

	"gametracker/library-service/internal/app/library/entity"
)

var (
	// ErrPreferenceNotFound - пользователь еще не сохранял настройку
	ErrPreferenceNotFound = errors.New("preference not found")
	// ErrReportNotFound - отчет еще не строился или истек TTL
	ErrReportNotFound = errors.New("report not found")
)

// PreferenceRepository хранит пользовательские настройки интерфейса в Redis
type PreferenceRepository interface {
	// GetTheme возвращает ErrPreferenceNotFound, если тема не сохранялась
	GetTheme(ctx context.Context, userID string) (entity.Theme, error)

	SetTheme(ctx context.Context, userID string, theme entity.Theme) error

	DeleteTheme(ctx context.Context, userID string) error
}

// ReportRepository хранит последний отчет по библиотеке
type ReportRepository interface {
	SaveLatest(ctx context.Context, report *entity.LibraryReport) error

	// GetLatest возвращает ErrReportNotFound, если отчета нет
	GetLatest(ctx context.Context) (*entity.LibraryReport, error)
}
