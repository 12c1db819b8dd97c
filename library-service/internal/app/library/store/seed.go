package store

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gametracker/library-service/internal/app/library/entity"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed - начальное содержимое хранилища
type Seed struct {
	Games    []entity.Game        `yaml:"games"`
	Statuses []entity.StatusEntry `yaml:"statuses"`
	Reviews  []entity.Review      `yaml:"reviews"`
}

// DefaultSeed возвращает встроенный каталог из шести игр
func DefaultSeed() (Seed, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeedFile читает каталог из YAML файла
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := seed.validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// validate проверяет инварианты начальных данных:
// уникальные ключи и ссылки отзывов/статусов только на известные игры
func (s Seed) validate() error {
	games := make(map[string]struct{}, len(s.Games))
	for _, g := range s.Games {
		if g.ID == "" {
			return fmt.Errorf("%w: seed game without id", ErrInvalidArgument)
		}
		if _, dup := games[g.ID]; dup {
			return fmt.Errorf("%w: duplicate seed game %q", ErrInvalidArgument, g.ID)
		}
		games[g.ID] = struct{}{}
	}

	type statusKey struct{ gameID, userID string }
	statuses := make(map[statusKey]struct{}, len(s.Statuses))
	for _, st := range s.Statuses {
		if _, ok := games[st.GameID]; !ok {
			return fmt.Errorf("%w: seed status for unknown game %q", ErrInvalidArgument, st.GameID)
		}
		if !st.Status.Valid() {
			return fmt.Errorf("%w: seed status %q for game %q", ErrInvalidArgument, st.Status, st.GameID)
		}
		key := statusKey{st.GameID, st.UserID}
		if _, dup := statuses[key]; dup {
			return fmt.Errorf("%w: duplicate seed status for game %q and user %q", ErrInvalidArgument, st.GameID, st.UserID)
		}
		statuses[key] = struct{}{}
	}

	reviews := make(map[string]struct{}, len(s.Reviews))
	for _, r := range s.Reviews {
		if _, ok := games[r.GameID]; !ok {
			return fmt.Errorf("%w: seed review %q for unknown game %q", ErrInvalidArgument, r.ID, r.GameID)
		}
		if r.Rating < minRating || r.Rating > maxRating {
			return fmt.Errorf("%w: seed review %q rating %d", ErrInvalidArgument, r.ID, r.Rating)
		}
		if _, dup := reviews[r.ID]; dup {
			return fmt.Errorf("%w: duplicate seed review %q", ErrInvalidArgument, r.ID)
		}
		reviews[r.ID] = struct{}{}
	}

	return nil
}
