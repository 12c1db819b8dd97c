package store

import (
	"math"

	"gametracker/library-service/internal/app/library/entity"
)

// Aggregate вычисляет среднюю оценку и количество отзывов игры
// Без отзывов возвращает нулевой агрегат, средняя округляется до одного знака
func Aggregate(gameID string, reviews []entity.Review) entity.RatingAggregate {
	var sum, count int
	for _, r := range reviews {
		if r.GameID != gameID {
			continue
		}
		sum += r.Rating
		count++
	}

	if count == 0 {
		return entity.RatingAggregate{}
	}

	mean := float64(sum) / float64(count)
	return entity.RatingAggregate{
		Average: math.Round(mean*10) / 10,
		Count:   count,
	}
}

// ApplyAggregate возвращает новое значение игры с пересчитанными полями
func ApplyAggregate(game entity.Game, agg entity.RatingAggregate) entity.Game {
	game.AverageRating = agg.Average
	game.TotalReviews = agg.Count
	return game
}
