// Package catalog содержит чистые функции просмотра каталога и библиотеки
// поверх снимков хранилища: поиск, фильтрация, сортировка и группировка
package catalog

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gametracker/library-service/internal/app/library/entity"
)

// GenreAll отключает фильтр по жанру
const GenreAll = "all"

// SortBy - порядок отображения каталога
type SortBy string

const (
	SortByTitle       SortBy = "title"
	SortByRating      SortBy = "rating"
	SortByReleaseDate SortBy = "releaseDate"
)

// Filter - параметры просмотра каталога
// Пустой SortBy означает сортировку по рейтингу
type Filter struct {
	Search string
	Genre  string
	SortBy SortBy
}

// FilterGames возвращает новый срез игр, подходящих под фильтр, в нужном порядке
// Сортировка стабильна: игры с равным ключом сохраняют порядок каталога
// Неизвестный SortBy оставляет порядок каталога
func FilterGames(games []entity.Game, f Filter) []entity.Game {
	out := make([]entity.Game, 0, len(games))

	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(f.Search))
	for _, g := range games {
		if search != "" && !matches(fold, g, search) {
			continue
		}
		if f.Genre != "" && f.Genre != GenreAll && !slices.Contains(g.Genres, f.Genre) {
			continue
		}
		out = append(out, g)
	}

	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = SortByRating
	}

	switch sortBy {
	case SortByTitle:
		col := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b entity.Game) int {
			return col.CompareString(a.Title, b.Title)
		})
	case SortByRating:
		slices.SortStableFunc(out, func(a, b entity.Game) int {
			return cmp.Compare(b.AverageRating, a.AverageRating)
		})
	case SortByReleaseDate:
		slices.SortStableFunc(out, func(a, b entity.Game) int {
			return b.ReleaseDate.Compare(a.ReleaseDate)
		})
	}

	return out
}

func matches(fold cases.Caser, g entity.Game, search string) bool {
	if strings.Contains(fold.String(g.Title), search) || strings.Contains(fold.String(g.Developer), search) {
		return true
	}
	for _, genre := range g.Genres {
		if strings.Contains(fold.String(genre), search) {
			return true
		}
	}
	return false
}

// Genres возвращает отсортированный список всех жанров каталога без повторов
func Genres(games []entity.Game) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, g := range games {
		for _, genre := range g.Genres {
			if _, ok := seen[genre]; ok {
				continue
			}
			seen[genre] = struct{}{}
			out = append(out, genre)
		}
	}
	sort.Strings(out)
	return out
}

// GroupByStatus раскладывает игры библиотеки пользователя по статусам
// Записи, ссылающиеся на неизвестные игры, пропускаются
// Внутри статуса сохраняется порядок записей
func GroupByStatus(games []entity.Game, statuses []entity.StatusEntry) map[entity.PlayStatus][]entity.LibraryItem {
	byID := make(map[string]entity.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}

	grouped := make(map[entity.PlayStatus][]entity.LibraryItem, len(entity.PlayStatuses))
	for _, status := range entity.PlayStatuses {
		grouped[status] = []entity.LibraryItem{}
	}

	for _, st := range statuses {
		g, ok := byID[st.GameID]
		if !ok {
			continue
		}
		grouped[st.Status] = append(grouped[st.Status], entity.LibraryItem{Game: g, Status: st})
	}
	return grouped
}

// StatusOf ищет запись статуса игры, false означает "не в библиотеке"
func StatusOf(statuses []entity.StatusEntry, gameID string) (entity.StatusEntry, bool) {
	for _, st := range statuses {
		if st.GameID == gameID {
			return st, true
		}
	}
	return entity.StatusEntry{}, false
}

// SortReviewsNewestFirst возвращает новый срез отзывов от новых к старым
func SortReviewsNewestFirst(reviews []entity.Review) []entity.Review {
	out := slices.Clone(reviews)
	slices.SortStableFunc(out, func(a, b entity.Review) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Stars раскладывает рейтинг на полные, половинную и пустые звезды из пяти
func Stars(rating float64) (full int, half bool, empty int) {
	rating = math.Max(0, math.Min(5, rating))
	full = int(math.Floor(rating))
	half = rating-float64(full) >= 0.5
	empty = 5 - full
	if half {
		empty--
	}
	return full, half, empty
}

// BuildReport собирает сводку по каталогу и библиотеке
// TopRated - игра с наибольшим рейтингом среди игр с отзывами
func BuildReport(snapshot entity.Snapshot, userID string) entity.LibraryReport {
	report := entity.LibraryReport{
		TotalGames:   len(snapshot.Games),
		TotalReviews: len(snapshot.Reviews),
		ByStatus:     make(map[entity.PlayStatus]int, len(entity.PlayStatuses)),
	}

	for _, status := range entity.PlayStatuses {
		report.ByStatus[status] = 0
	}
	for _, st := range snapshot.Statuses {
		if st.UserID == userID {
			report.ByStatus[st.Status]++
		}
	}

	for i := range snapshot.Games {
		g := snapshot.Games[i]
		if g.TotalReviews == 0 {
			continue
		}
		if report.TopRated == nil || g.AverageRating > report.TopRated.AverageRating {
			report.TopRated = &g
		}
	}

	return report
}
