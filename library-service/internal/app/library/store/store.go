package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"gametracker/library-service/internal/app/library/entity"
	"gametracker/library-service/internal/app/library/reactive"
	"gametracker/pkg/logger"
	"gametracker/pkg/metrics"
)

var (
	// ErrInvalidArgument - нарушение контракта команды вызывающей стороной
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrGameNotFound - команда ссылается на неизвестную игру
	ErrGameNotFound = errors.New("game not found")
)

// DefaultUserID - единственный локальный пользователь
const DefaultUserID = "user-1"

const (
	TopicGames    = "games"
	TopicStatuses = "statuses"
	TopicReviews  = "reviews"

	commandUpsertStatus = "upsert_status"
	commandAddReview    = "add_review"
)

// state - коллекции, над которыми строятся команды
// Срезы никогда не изменяются на месте: каждая мутация создает новый срез
// и публикует его в топик, поэтому снимок топика всегда совпадает с state
type state struct {
	games    []entity.Game
	statuses []entity.StatusEntry
	reviews  []entity.Review
}

// EntityStore владеет каталогом игр, статусами и отзывами
// Команды выполняются атомарно под одной блокировкой, уведомления доставляются
// после снятия блокировки в порядке коммитов
type EntityStore struct {
	mu    sync.RWMutex
	state state

	userID   string
	now      Clock
	ids      IDGenerator
	validate *validator.Validate
	log      zerolog.Logger

	dispatcher *reactive.Dispatcher
	games      *reactive.Topic[[]entity.Game]
	statuses   *reactive.Topic[[]entity.StatusEntry]
	reviews    *reactive.Topic[[]entity.Review]
}

type Option func(*EntityStore)

func WithClock(clock Clock) Option {
	return func(s *EntityStore) { s.now = clock }
}

func WithIDGenerator(ids IDGenerator) Option {
	return func(s *EntityStore) { s.ids = ids }
}

func WithCurrentUser(userID string) Option {
	return func(s *EntityStore) { s.userID = userID }
}

// NewEntityStore создает хранилище из начальных данных
// Агрегаты игр пересчитываются из отзывов seed, значения из seed игнорируются
func NewEntityStore(seed Seed, opts ...Option) (*EntityStore, error) {
	if err := seed.validate(); err != nil {
		return nil, err
	}

	s := &EntityStore{
		userID:     DefaultUserID,
		now:        time.Now,
		ids:        UUIDGenerator{},
		validate:   newValidator(),
		log:        logger.Component("entity-store"),
		dispatcher: reactive.NewDispatcher(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.userID == "" {
		return nil, fmt.Errorf("%w: empty current user", ErrInvalidArgument)
	}

	reviews := CloneReviews(seed.Reviews)
	games := CloneGames(seed.Games)
	for i := range games {
		games[i] = ApplyAggregate(games[i], Aggregate(games[i].ID, reviews))
	}

	s.state = state{
		games:    games,
		statuses: CloneStatuses(seed.Statuses),
		reviews:  reviews,
	}

	s.games = reactive.NewTopic(TopicGames, s.state.games, CloneGames, s.dispatcher)
	s.statuses = reactive.NewTopic(TopicStatuses, s.state.statuses, CloneStatuses, s.dispatcher)
	s.reviews = reactive.NewTopic(TopicReviews, s.state.reviews, CloneReviews, s.dispatcher)

	s.log.Debug().
		Int("games", len(games)).
		Int("statuses", len(s.state.statuses)).
		Int("reviews", len(reviews)).
		Msg("Entity store initialized")

	return s, nil
}

// CurrentUserID возвращает пользователя, от имени которого выполняются команды
func (s *EntityStore) CurrentUserID() string {
	return s.userID
}

// ListGames возвращает все игры в порядке добавления
func (s *EntityStore) ListGames() []entity.Game {
	return s.games.Current()
}

// GetGame ищет игру по ID, отсутствие игры не является ошибкой
func (s *EntityStore) GetGame(id string) (entity.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.gameIndex(id)
	if idx < 0 {
		return entity.Game{}, false
	}
	return CloneGame(s.state.games[idx]), true
}

// ListStatuses возвращает все записи статусов пользователя
func (s *EntityStore) ListStatuses(userID string) []entity.StatusEntry {
	out := make([]entity.StatusEntry, 0)
	for _, st := range s.statuses.Current() {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	return out
}

// ListReviews возвращает отзывы игры в порядке создания
// Сортировка для отображения - забота потребителя
func (s *EntityStore) ListReviews(gameID string) []entity.Review {
	out := make([]entity.Review, 0)
	for _, r := range s.reviews.Current() {
		if r.GameID == gameID {
			out = append(out, r)
		}
	}
	return out
}

// Snapshot возвращает все три коллекции, согласованные на один коммит
// Топики публикуются под s.mu, поэтому блокировка на чтение не дает
// увидеть половину коммита
func (s *EntityStore) Snapshot() entity.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return entity.Snapshot{
		Games:    s.games.Current(),
		Statuses: s.statuses.Current(),
		Reviews:  s.reviews.Current(),
	}
}

// UpsertStatus заменяет запись статуса текущего пользователя целиком или добавляет новую
// Поля, не переданные в draft, не наследуются от старой записи
// Переход в playing проставляет LastPlayed текущим временем
func (s *EntityStore) UpsertStatus(draft entity.StatusDraft) (entity.StatusEntry, error) {
	if err := s.validateDraft(draft); err != nil {
		return entity.StatusEntry{}, s.reject(commandUpsertStatus, draft.GameID, err)
	}

	s.mu.Lock()
	if s.gameIndex(draft.GameID) < 0 {
		s.mu.Unlock()
		return entity.StatusEntry{}, s.reject(commandUpsertStatus, draft.GameID, unknownGame(draft.GameID))
	}

	entry := entity.StatusEntry{
		GameID:      draft.GameID,
		UserID:      s.userID,
		Status:      draft.Status,
		HoursPlayed: cloneInt(draft.HoursPlayed),
		LastPlayed:  cloneTime(draft.LastPlayed),
		AddedDate:   draft.AddedDate,
	}
	if entry.Status == entity.StatusPlaying {
		now := s.now()
		entry.LastPlayed = &now
	}

	next := make([]entity.StatusEntry, 0, len(s.state.statuses)+1)
	replaced := false
	for _, st := range s.state.statuses {
		if st.GameID == entry.GameID && st.UserID == entry.UserID {
			next = append(next, entry)
			replaced = true
			continue
		}
		next = append(next, st)
	}
	if !replaced {
		next = append(next, entry)
	}

	s.state.statuses = next
	s.statuses.Publish(next)
	s.mu.Unlock()

	metrics.RecordCommit(commandUpsertStatus, metrics.OutcomeCommitted)
	metrics.StatusUpserts.WithLabelValues(string(entry.Status)).Inc()
	s.log.Debug().
		Str("game_id", entry.GameID).
		Str("status", string(entry.Status)).
		Bool("replaced", replaced).
		Msg("Status committed")

	s.dispatcher.Flush()
	return cloneStatus(entry), nil
}

// AddReview сохраняет отзыв, пересчитывает агрегат игры и уведомляет
// подписчиков отзывов и каталога
func (s *EntityStore) AddReview(draft entity.ReviewDraft) (entity.Review, error) {
	if err := s.validateDraft(draft); err != nil {
		return entity.Review{}, s.reject(commandAddReview, draft.GameID, err)
	}

	s.mu.Lock()
	idx := s.gameIndex(draft.GameID)
	if idx < 0 {
		s.mu.Unlock()
		return entity.Review{}, s.reject(commandAddReview, draft.GameID, unknownGame(draft.GameID))
	}

	// ID выдается под блокировкой, чтобы порядок ID совпадал с порядком коммитов
	id, err := s.ids.NewID()
	if err != nil {
		s.mu.Unlock()
		return entity.Review{}, s.reject(commandAddReview, draft.GameID, err)
	}

	review := entity.Review{
		ID:           id,
		GameID:       draft.GameID,
		UserID:       s.userID,
		UserName:     draft.UserName,
		UserAvatar:   draft.UserAvatar,
		Rating:       draft.Rating,
		Title:        draft.Title,
		Content:      draft.Content,
		CreatedAt:    s.now(),
		HelpfulCount: 0,
	}

	reviews := make([]entity.Review, len(s.state.reviews), len(s.state.reviews)+1)
	copy(reviews, s.state.reviews)
	reviews = append(reviews, review)

	games := make([]entity.Game, len(s.state.games))
	copy(games, s.state.games)
	agg := Aggregate(review.GameID, reviews)
	games[idx] = ApplyAggregate(games[idx], agg)

	s.state.reviews = reviews
	s.state.games = games
	s.reviews.Publish(reviews)
	s.games.Publish(games)
	s.mu.Unlock()

	metrics.RecordCommit(commandAddReview, metrics.OutcomeCommitted)
	metrics.RecordReviewCreated(review.Rating)
	s.log.Debug().
		Str("review_id", review.ID).
		Str("game_id", review.GameID).
		Int("rating", review.Rating).
		Float64("average_rating", agg.Average).
		Int("total_reviews", agg.Count).
		Msg("Review committed")

	s.dispatcher.Flush()
	return cloneReview(review), nil
}

// SubscribeGames подписывает на снимки каталога после каждого коммита
func (s *EntityStore) SubscribeGames(callback func([]entity.Game)) (unsubscribe func()) {
	return s.games.Subscribe(callback)
}

// SubscribeStatuses подписывает на снимки статусов после каждого коммита
func (s *EntityStore) SubscribeStatuses(callback func([]entity.StatusEntry)) (unsubscribe func()) {
	return s.statuses.Subscribe(callback)
}

// SubscribeReviews подписывает на снимки отзывов после каждого коммита
func (s *EntityStore) SubscribeReviews(callback func([]entity.Review)) (unsubscribe func()) {
	return s.reviews.Subscribe(callback)
}

// WatchReviews атомарно возвращает текущие отзывы и подписывает на следующие коммиты
func (s *EntityStore) WatchReviews(callback func([]entity.Review)) ([]entity.Review, func()) {
	return s.reviews.Watch(callback)
}

func (s *EntityStore) gameIndex(id string) int {
	for i, g := range s.state.games {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (s *EntityStore) reject(command, gameID string, err error) error {
	metrics.RecordCommit(command, metrics.OutcomeRejected)
	s.log.Warn().
		Err(err).
		Str("command", command).
		Str("game_id", gameID).
		Msg("Command rejected")
	return err
}

func unknownGame(id string) error {
	return fmt.Errorf("%w: %w: %q", ErrInvalidArgument, ErrGameNotFound, id)
}
