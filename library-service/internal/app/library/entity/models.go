package entity

import (
	"time"
)

// PlayStatus - статус игры в библиотеке пользователя
type PlayStatus string

const (
	StatusPlaying   PlayStatus = "playing"
	StatusCompleted PlayStatus = "completed"
	StatusWishlist  PlayStatus = "wishlist"
	StatusDropped   PlayStatus = "dropped"
)

// PlayStatuses перечисляет все статусы в порядке отображения библиотеки
var PlayStatuses = []PlayStatus{StatusPlaying, StatusCompleted, StatusWishlist, StatusDropped}

// Valid сообщает, является ли статус одним из допустимых
func (s PlayStatus) Valid() bool {
	switch s {
	case StatusPlaying, StatusCompleted, StatusWishlist, StatusDropped:
		return true
	}
	return false
}

// Game - игра из каталога
// AverageRating и TotalReviews вычисляются хранилищем из отзывов и не задаются извне
type Game struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Developer     string    `json:"developer" yaml:"developer"`
	Publisher     string    `json:"publisher" yaml:"publisher"`
	ReleaseDate   time.Time `json:"release_date" yaml:"release_date"`
	Genres        []string  `json:"genres" yaml:"genres"`
	Platforms     []string  `json:"platforms" yaml:"platforms"`
	CoverImage    string    `json:"cover_image" yaml:"cover_image"`
	Description   string    `json:"description" yaml:"description"`
	AverageRating float64   `json:"average_rating" yaml:"-"` // 0-5, один знак после запятой
	TotalReviews  int       `json:"total_reviews" yaml:"-"`
}

// StatusEntry - запись о статусе игры у пользователя
// Ключ записи - пара (GameID, UserID)
type StatusEntry struct {
	GameID      string     `json:"game_id" yaml:"game_id"`
	UserID      string     `json:"user_id" yaml:"user_id"`
	Status      PlayStatus `json:"status" yaml:"status"`
	HoursPlayed *int       `json:"hours_played,omitempty" yaml:"hours_played,omitempty"`
	LastPlayed  *time.Time `json:"last_played,omitempty" yaml:"last_played,omitempty"`
	AddedDate   time.Time  `json:"added_date" yaml:"added_date"`
}

// Review - отзыв на игру
type Review struct {
	ID           string     `json:"id" yaml:"id"`
	GameID       string     `json:"game_id" yaml:"game_id"`
	UserID       string     `json:"user_id" yaml:"user_id"`
	UserName     string     `json:"user_name" yaml:"user_name"`
	UserAvatar   string     `json:"user_avatar,omitempty" yaml:"user_avatar,omitempty"`
	Rating       int        `json:"rating" yaml:"rating"` // Оценка от 0 до 5
	Title        string     `json:"title" yaml:"title"`
	Content      string     `json:"content" yaml:"content"`
	CreatedAt    time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	HelpfulCount int        `json:"helpful_count" yaml:"helpful_count"`
}

// RatingAggregate - средняя оценка и количество отзывов игры
type RatingAggregate struct {
	Average float64
	Count   int
}

// Snapshot - согласованный срез всех трех коллекций на момент коммита
type Snapshot struct {
	Games    []Game
	Statuses []StatusEntry
	Reviews  []Review
}

// ReviewEvent - событие о новом отзыве для Kafka
type ReviewEvent struct {
	EventType     string    `json:"event_type"` // REVIEW_CREATED
	ReviewID      string    `json:"review_id"`
	GameID        string    `json:"game_id"`
	UserID        string    `json:"user_id"`
	Rating        int       `json:"rating"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int       `json:"total_reviews"`
	Timestamp     time.Time `json:"timestamp"`
}

const EventReviewCreated = "REVIEW_CREATED"
