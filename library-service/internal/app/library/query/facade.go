package query

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"gametracker/library-service/internal/app/library/entity"
	"gametracker/library-service/internal/app/library/store"
	"gametracker/pkg/logger"
)

// DefaultLatency имитирует задержку удаленного бэкенда
const DefaultLatency = 100 * time.Millisecond

const (
	queryGames    = "games"
	queryGame     = "game"
	queryStatuses = "statuses"
	queryReviews  = "reviews"
)

// Reader - синхронные чтения хранилища, которые оборачивает Facade
type Reader interface {
	ListGames() []entity.Game
	GetGame(id string) (entity.Game, bool)
	ListStatuses(userID string) []entity.StatusEntry
	ListReviews(gameID string) []entity.Review
}

// Facade выполняет чтения с фиксированной задержкой
// Результат читается в момент вызова: коммиты во время задержки в него не попадают
type Facade struct {
	reader  Reader
	latency time.Duration
	log     zerolog.Logger
}

func NewFacade(reader Reader, latency time.Duration) *Facade {
	if latency < 0 {
		latency = 0
	}
	return &Facade{
		reader:  reader,
		latency: latency,
		log:     logger.Component("query-facade"),
	}
}

func (f *Facade) Latency() time.Duration {
	return f.latency
}

// GetGames возвращает весь каталог
func (f *Facade) GetGames(ctx context.Context) *Pending[[]entity.Game] {
	f.log.Debug().Str("query", queryGames).Msg("Query dispatched")
	return newPending(ctx, queryGames, f.reader.ListGames(), store.CloneGames, f.latency)
}

// GetGame возвращает игру или nil, если ее нет в каталоге
func (f *Facade) GetGame(ctx context.Context, id string) *Pending[*entity.Game] {
	f.log.Debug().Str("query", queryGame).Str("game_id", id).Msg("Query dispatched")

	var result *entity.Game
	if game, ok := f.reader.GetGame(id); ok {
		result = &game
	}
	return newPending(ctx, queryGame, result, cloneGameRef, f.latency)
}

// GetStatuses возвращает записи статусов пользователя
func (f *Facade) GetStatuses(ctx context.Context, userID string) *Pending[[]entity.StatusEntry] {
	f.log.Debug().Str("query", queryStatuses).Str("user_id", userID).Msg("Query dispatched")
	return newPending(ctx, queryStatuses, f.reader.ListStatuses(userID), store.CloneStatuses, f.latency)
}

// GetReviews возвращает отзывы игры в порядке хранения
func (f *Facade) GetReviews(ctx context.Context, gameID string) *Pending[[]entity.Review] {
	f.log.Debug().Str("query", queryReviews).Str("game_id", gameID).Msg("Query dispatched")
	return newPending(ctx, queryReviews, f.reader.ListReviews(gameID), store.CloneReviews, f.latency)
}

func cloneGameRef(g *entity.Game) *entity.Game {
	if g == nil {
		return nil
	}
	cp := store.CloneGame(*g)
	return &cp
}
