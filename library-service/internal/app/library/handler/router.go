package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gametracker/pkg/logger"
	"gametracker/pkg/metrics"
)

const serviceName = "library-service"

// SetupRoutes собирает служебный HTTP: health проверки и метрики Prometheus
// Команды и запросы хранилища по сети не публикуются
func SetupRoutes(health *HealthCheckHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware(serviceName, "/metrics"))

	router.GET("/health", health.HealthCheck)
	router.GET("/health/readiness", health.Readiness)
	router.GET("/health/liveness", health.Liveness)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
