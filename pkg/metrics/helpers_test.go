package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCommit(t *testing.T) {
	before := testutil.ToFloat64(StoreCommitsTotal.WithLabelValues("test_command", OutcomeRejected))

	RecordCommit("test_command", OutcomeRejected)

	after := testutil.ToFloat64(StoreCommitsTotal.WithLabelValues("test_command", OutcomeRejected))
	assert.Equal(t, before+1, after)
}

func TestRecordReviewCreated(t *testing.T) {
	before := testutil.ToFloat64(ReviewsCreated)

	RecordReviewCreated(4)

	assert.Equal(t, before+1, testutil.ToFloat64(ReviewsCreated))
}

func TestRecordQueryCancelled(t *testing.T) {
	before := testutil.ToFloat64(QueriesCancelled.WithLabelValues("test_query"))

	RecordQueryCancelled("test_query")

	assert.Equal(t, before+1, testutil.ToFloat64(QueriesCancelled.WithLabelValues("test_query")))
}

func TestRecordCronRun(t *testing.T) {
	success := testutil.ToFloat64(CronJobRuns.WithLabelValues("test_job", "success"))
	failed := testutil.ToFloat64(CronJobRuns.WithLabelValues("test_job", "failed"))

	RecordCronRun("test_job", nil)
	RecordCronRun("test_job", errors.New("boom"))
	RecordCronRun("test_job", errors.New("boom"))

	assert.Equal(t, success+1, testutil.ToFloat64(CronJobRuns.WithLabelValues("test_job", "success")))
	assert.Equal(t, failed+2, testutil.ToFloat64(CronJobRuns.WithLabelValues("test_job", "failed")))
}

func TestKafkaProduceTimer(t *testing.T) {
	produced := testutil.ToFloat64(KafkaMessagesProduced.WithLabelValues("test-service", "test-topic"))
	failed := testutil.ToFloat64(KafkaErrors.WithLabelValues("test-service", "test-topic", "produce"))

	NewKafkaProduceTimer("test-service", "test-topic").Success()
	NewKafkaProduceTimer("test-service", "test-topic").Error()

	assert.Equal(t, produced+1, testutil.ToFloat64(KafkaMessagesProduced.WithLabelValues("test-service", "test-topic")))
	assert.Equal(t, failed+1, testutil.ToFloat64(KafkaErrors.WithLabelValues("test-service", "test-topic", "produce")))
}

func TestRedisCacheCounters(t *testing.T) {
	hits := testutil.ToFloat64(RedisCacheHits.WithLabelValues("test-service", "theme"))
	misses := testutil.ToFloat64(RedisCacheMisses.WithLabelValues("test-service", "theme"))

	RecordCacheHit("test-service", "theme")
	RecordCacheMiss("test-service", "theme")
	NewRedisTimer("test-service", RedisOpGet).ObserveDuration()

	assert.Equal(t, hits+1, testutil.ToFloat64(RedisCacheHits.WithLabelValues("test-service", "theme")))
	assert.Equal(t, misses+1, testutil.ToFloat64(RedisCacheMisses.WithLabelValues("test-service", "theme")))
}

func TestGinPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinPrometheusMiddleware("test-service", "/skip"))
	router.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/skip", func(c *gin.Context) { c.Status(http.StatusOK) })

	matched := HttpRequestsTotal.WithLabelValues("test-service", http.MethodGet, "/items/:id", "200")
	skipped := HttpRequestsTotal.WithLabelValues("test-service", http.MethodGet, "/skip", "200")
	unmatched := HttpRequestsTotal.WithLabelValues("test-service", http.MethodGet, "unmatched", "404")
	before := []float64{testutil.ToFloat64(matched), testutil.ToFloat64(skipped), testutil.ToFloat64(unmatched)}

	for _, path := range []string{"/items/1", "/items/2", "/skip", "/missing"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	// Идентификаторы не попадают в label path
	assert.Equal(t, before[0]+2, testutil.ToFloat64(matched))
	assert.Equal(t, before[1], testutil.ToFloat64(skipped))
	assert.Equal(t, before[2]+1, testutil.ToFloat64(unmatched))
}

func TestRecordQueryResolved(t *testing.T) {
	assert.NotPanics(t, func() { RecordQueryResolved("test_query", 15*time.Millisecond) })
}
