package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (операционный роутер)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Store Метрики (хранилище сущностей)
// =============================================================================

// StoreCommitsTotal - команды хранилища по результату
// Labels: command (upsert_status, add_review), outcome (committed, rejected)
var StoreCommitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_commits_total",
		Help: "Total number of store commands by outcome",
	},
	[]string{"command", "outcome"},
)

// StatusUpserts - зафиксированные статусы по значению
var StatusUpserts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "library_status_upserts_total",
		Help: "Total number of committed status upserts by status",
	},
	[]string{"status"}, // playing, completed, wishlist, dropped
)

// ReviewsCreated - созданные отзывы
var ReviewsCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "reviews_created_total",
		Help: "Total number of reviews created",
	},
)

// ReviewsRating - распределение оценок
var ReviewsRating = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "reviews_rating",
		Help:    "Distribution of review ratings",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	},
)

// =============================================================================
// Reactive Метрики (подписки)
// =============================================================================

// SubscribersActive - активные подписчики по топику
var SubscribersActive = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "store_subscribers_active",
		Help: "Number of active subscribers per topic",
	},
	[]string{"topic"}, // games, statuses, reviews
)

// NotificationsDelivered - доставленные подписчикам снимки
var NotificationsDelivered = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_notifications_delivered_total",
		Help: "Total number of snapshots delivered to subscribers",
	},
	[]string{"topic"},
)

// =============================================================================
// Query Метрики (асинхронные запросы)
// =============================================================================

// QueryDuration - время от отправки запроса до его завершения
var QueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "query_duration_seconds",
		Help:    "Duration of deferred queries from dispatch to resolution",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"query"},
)

// QueriesCancelled - отмененные запросы
var QueriesCancelled = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "queries_cancelled_total",
		Help: "Total number of deferred queries cancelled before resolution",
	},
	[]string{"query"},
)

// =============================================================================
// Redis Метрики (настройки пользователя)
// =============================================================================

// RedisCacheHits - найденные ключи
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - отсутствующие ключи
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики (события отзывов)
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// EventsDropped - события, не поместившиеся в буфер отправки
var EventsDropped = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "events_dropped_total",
		Help: "Total number of domain events dropped because the forward buffer was full",
	},
	[]string{"event_type"},
)

// =============================================================================
// Cron Метрики
// =============================================================================

// CronJobRuns - запуски периодических задач
var CronJobRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cron_job_runs_total",
		Help: "Total number of scheduled job runs",
	},
	[]string{"job", "status"}, // success, failed
)
