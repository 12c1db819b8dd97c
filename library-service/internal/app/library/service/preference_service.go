package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"gametracker/library-service/internal/app/library/entity"
	"gametracker/library-service/internal/app/library/repository"
	"gametracker/pkg/logger"
)

// ErrInvalidTheme - тема не входит в light/dark
var ErrInvalidTheme = errors.New("invalid theme")

// DefaultTheme применяется, пока пользователь не выбрал тему
const DefaultTheme = entity.ThemeLight

// PreferenceService управляет темой оформления пользователя
type PreferenceService struct {
	repo repository.PreferenceRepository
	log  zerolog.Logger
}

func NewPreferenceService(repo repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{
		repo: repo,
		log:  logger.Component("preference-service"),
	}
}

// Theme возвращает сохраненную тему или тему по умолчанию
// Неизвестное сохраненное значение не является ошибкой: возвращается тема по умолчанию,
// ErrInvalidTheme возвращает только SetTheme
func (s *PreferenceService) Theme(ctx context.Context, userID string) (entity.Theme, error) {
	theme, err := s.repo.GetTheme(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			return DefaultTheme, nil
		}
		return "", fmt.Errorf("failed to get theme: %w", err)
	}

	if !validTheme(theme) {
		s.log.Warn().
			Str("user_id", userID).
			Str("theme", string(theme)).
			Msg("Stored theme is invalid, falling back to default")
		return DefaultTheme, nil
	}

	return theme, nil
}

func (s *PreferenceService) SetTheme(ctx context.Context, userID string, theme entity.Theme) error {
	if !validTheme(theme) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}

	if err := s.repo.SetTheme(ctx, userID, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	s.log.Debug().Str("user_id", userID).Str("theme", string(theme)).Msg("Theme saved")
	return nil
}

// Toggle переключает light и dark и возвращает новую тему
func (s *PreferenceService) Toggle(ctx context.Context, userID string) (entity.Theme, error) {
	current, err := s.Theme(ctx, userID)
	if err != nil {
		return "", err
	}

	next := entity.ThemeDark
	if current == entity.ThemeDark {
		next = entity.ThemeLight
	}

	if err := s.SetTheme(ctx, userID, next); err != nil {
		return "", err
	}
	return next, nil
}

// Reset возвращает пользователя к теме по умолчанию
func (s *PreferenceService) Reset(ctx context.Context, userID string) error {
	if err := s.repo.DeleteTheme(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset theme: %w", err)
	}
	return nil
}

func validTheme(theme entity.Theme) bool {
	return theme == entity.ThemeLight || theme == entity.ThemeDark
}
