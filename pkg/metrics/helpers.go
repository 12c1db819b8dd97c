package metrics

import (
	"time"
)

type RedisOperation string

const (
	RedisOpGet RedisOperation = "get"
	RedisOpSet RedisOperation = "set"
	RedisOpDel RedisOperation = "del"
)

type RedisTimer struct {
	service   string
	operation RedisOperation
	start     time.Time
}

func NewRedisTimer(service string, op RedisOperation) *RedisTimer {
	return &RedisTimer{
		service:   service,
		operation: op,
		start:     time.Now(),
	}
}

func (rt *RedisTimer) ObserveDuration() {
	duration := time.Since(rt.start).Seconds()
	RedisOperationDuration.WithLabelValues(rt.service, string(rt.operation)).Observe(duration)
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

func RecordRedisError(service string, op RedisOperation) {
	RedisErrors.WithLabelValues(service, string(op)).Inc()
}

func RecordKafkaMessageProduced(service, topic string, duration time.Duration) {
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(duration.Seconds())
}

func RecordKafkaError(service, topic, operation string) {
	KafkaErrors.WithLabelValues(service, topic, operation).Inc()
}

type KafkaProduceTimer struct {
	service string
	topic   string
	start   time.Time
}

func NewKafkaProduceTimer(service, topic string) *KafkaProduceTimer {
	return &KafkaProduceTimer{
		service: service,
		topic:   topic,
		start:   time.Now(),
	}
}

func (kt *KafkaProduceTimer) Success() {
	RecordKafkaMessageProduced(kt.service, kt.topic, time.Since(kt.start))
}

func (kt *KafkaProduceTimer) Error() {
	RecordKafkaError(kt.service, kt.topic, "produce")
}

// Исходы команд хранилища
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
)

func RecordCommit(command, outcome string) {
	StoreCommitsTotal.WithLabelValues(command, outcome).Inc()
}

func RecordReviewCreated(rating int) {
	ReviewsCreated.Inc()
	ReviewsRating.Observe(float64(rating))
}

func RecordQueryResolved(query string, duration time.Duration) {
	QueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

func RecordQueryCancelled(query string) {
	QueriesCancelled.WithLabelValues(query).Inc()
}

func RecordCronRun(job string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	CronJobRuns.WithLabelValues(job, status).Inc()
}
