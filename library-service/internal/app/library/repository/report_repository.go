package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gametracker/library-service/internal/app/library/entity"
	"gametracker/pkg/metrics"
)

const reportKeyPrefix = "report"

type reportRepository struct {
	client *redis.Client
	key    string
	ttl    time.Duration // TTL последнего отчета
}

// NewReportRepository создает репозиторий отчетов с ключом <prefix>:report:latest
func NewReportRepository(client *redis.Client, prefix string, ttl time.Duration) ReportRepository {
	return &reportRepository{
		client: client,
		key:    fmt.Sprintf("%s:%s:latest", prefix, reportKeyPrefix),
		ttl:    ttl,
	}
}

// SaveLatest перезаписывает последний отчет
func (r *reportRepository) SaveLatest(ctx context.Context, report *entity.LibraryReport) error {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError(metricsService, metrics.RedisOpSet)
		return fmt.Errorf("failed to save report in redis: %w", err)
	}
	return nil
}

func (r *reportRepository) GetLatest(ctx context.Context) (*entity.LibraryReport, error) {
	timer := metrics.NewRedisTimer(metricsService, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheMiss(metricsService, reportKeyPrefix)
			return nil, ErrReportNotFound
		}
		metrics.RecordRedisError(metricsService, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get report from redis: %w", err)
	}

	var report entity.LibraryReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	metrics.RecordCacheHit(metricsService, reportKeyPrefix)
	return &report, nil
}
