package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"gametracker/library-service/internal/app/library/entity"
	"gametracker/pkg/metrics"
)

const (
	metricsService = "library-service"
	themeKeyPrefix = "theme"
)

type preferenceRepository struct {
	client *redis.Client
	prefix string
}

// NewPreferenceRepository создает репозиторий настроек
// Ключи имеют вид <prefix>:theme:<userID>
func NewPreferenceRepository(client *redis.Client, prefix string) PreferenceRepository {
	return &preferenceRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *preferenceRepository) themeKey(userID string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, themeKeyPrefix, userID)
}

func (r *preferenceRepository) GetTheme(ctx context.Context, userID string) (entity.Theme, error) {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	value, err := r.client.Get(ctx, r.themeKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(metricsService, themeKeyPrefix)
			return "", ErrPreferenceNotFound
		}
		metrics.RecordRedisError(metricsService, metrics.RedisOpGet)
		return "", fmt.Errorf("failed to get theme from redis: %w", err)
	}

	metrics.RecordCacheHit(metricsService, themeKeyPrefix)
	return entity.Theme(value), nil
}

// SetTheme сохраняет тему без TTL: настройка живет, пока ее не удалят
func (r *preferenceRepository) SetTheme(ctx context.Context, userID string, theme entity.Theme) error {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := r.client.Set(ctx, r.themeKey(userID), string(theme), 0).Err(); err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpSet)
		return fmt.Errorf("failed to set theme in redis: %w", err)
	}
	return nil
}

func (r *preferenceRepository) DeleteTheme(ctx context.Context, userID string) error {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, r.themeKey(userID)).Err(); err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete theme from redis: %w", err)
	}
	return nil
}
