package store

import (
	"slices"
	"time"

	"gametracker/library-service/internal/app/library/entity"
)

// Все значения, которые покидают хранилище, проходят через эти функции:
// вызывающий код получает копию и не может изменить состояние хранилища
// Экспортируемые варианты нужны потребителям, которые раздают один результат
// нескольким получателям (query.Pending)

func CloneGame(g entity.Game) entity.Game {
	cp := g
	cp.Genres = slices.Clone(g.Genres)
	cp.Platforms = slices.Clone(g.Platforms)
	return cp
}

func CloneGames(games []entity.Game) []entity.Game {
	out := make([]entity.Game, len(games))
	for i, g := range games {
		out[i] = CloneGame(g)
	}
	return out
}

func cloneStatus(s entity.StatusEntry) entity.StatusEntry {
	cp := s
	cp.HoursPlayed = cloneInt(s.HoursPlayed)
	cp.LastPlayed = cloneTime(s.LastPlayed)
	return cp
}

func CloneStatuses(statuses []entity.StatusEntry) []entity.StatusEntry {
	out := make([]entity.StatusEntry, len(statuses))
	for i, s := range statuses {
		out[i] = cloneStatus(s)
	}
	return out
}

func cloneReview(r entity.Review) entity.Review {
	cp := r
	cp.UpdatedAt = cloneTime(r.UpdatedAt)
	return cp
}

func CloneReviews(reviews []entity.Review) []entity.Review {
	out := make([]entity.Review, len(reviews))
	for i, r := range reviews {
		out[i] = cloneReview(r)
	}
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
