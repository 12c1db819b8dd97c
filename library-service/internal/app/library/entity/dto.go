package entity

import "time"

// StatusDraft - входные данные для UpsertStatus
// UserID не передается: хранилище подставляет текущего пользователя
type StatusDraft struct {
	GameID      string     `json:"game_id" validate:"required"`
	Status      PlayStatus `json:"status" validate:"required,oneof=playing completed wishlist dropped"`
	HoursPlayed *int       `json:"hours_played,omitempty" validate:"omitempty,min=0"`
	LastPlayed  *time.Time `json:"last_played,omitempty"`
	AddedDate   time.Time  `json:"added_date" validate:"required"`
}

// ReviewDraft - входные данные для AddReview
// ID, UserID, CreatedAt и HelpfulCount назначает хранилище
type ReviewDraft struct {
	GameID     string `json:"game_id" validate:"required"`
	UserName   string `json:"user_name" validate:"required"`
	UserAvatar string `json:"user_avatar,omitempty"`
	Rating     int    `json:"rating" validate:"min=0,max=5"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// Theme - тема оформления интерфейса
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// LibraryItem - игра вместе с ее записью статуса
type LibraryItem struct {
	Game   Game
	Status StatusEntry
}

// LibraryReport - сводка по каталогу и библиотеке для периодического отчета
type LibraryReport struct {
	GeneratedAt  time.Time          `json:"generated_at"`
	TotalGames   int                `json:"total_games"`
	TotalReviews int                `json:"total_reviews"`
	ByStatus     map[PlayStatus]int `json:"by_status"`
	TopRated     *Game              `json:"top_rated,omitempty"`
}
