package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"gametracker/library-service/internal/app/library/entity"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// RedisPinger - проверка доступности Redis
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// StoreStats - счетчики хранилища для health ответа
type StoreStats interface {
	Snapshot() entity.Snapshot
}

type HealthCheckHandler struct {
	redisClient RedisPinger
	store       StoreStats
}

func NewHealthCheckHandler(redisClient RedisPinger, store StoreStats) *HealthCheckHandler {
	return &HealthCheckHandler{
		redisClient: redisClient,
		store:       store,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
	Library   LibraryStats      `json:"library"`
	Timestamp time.Time         `json:"timestamp"`
}

type LibraryStats struct {
	Games    int `json:"games"`
	Statuses int `json:"statuses"`
	Reviews  int `json:"reviews"`
}

func (h *HealthCheckHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	overallStatus := statusHealthy

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		checks["redis"] = statusUnhealthy + ": " + err.Error()
		overallStatus = statusUnhealthy
	} else {
		checks["redis"] = statusHealthy
	}
	checks["store"] = statusHealthy

	snapshot := h.store.Snapshot()
	response := HealthResponse{
		Status:  overallStatus,
		Service: serviceName,
		Checks:  checks,
		Library: LibraryStats{
			Games:    len(snapshot.Games),
			Statuses: len(snapshot.Statuses),
			Reviews:  len(snapshot.Reviews),
		},
		Timestamp: time.Now(),
	}

	code := http.StatusOK
	if overallStatus != statusHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response)
}

func (h *HealthCheckHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		c.String(http.StatusServiceUnavailable, "redis not ready")
		return
	}
	c.String(http.StatusOK, "ready")
}

func (h *HealthCheckHandler) Liveness(c *gin.Context) {
	c.String(http.StatusOK, "alive")
}
