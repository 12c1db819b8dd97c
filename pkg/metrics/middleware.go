package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GinPrometheusMiddleware собирает http_requests_total и http_request_duration_seconds
// Пути из skipPaths (например /metrics и /health) не учитываются
func GinPrometheusMiddleware(serviceName string, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()

		HttpRequestsInFlight.WithLabelValues(serviceName).Inc()
		defer HttpRequestsInFlight.WithLabelValues(serviceName).Dec()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := routePath(c)

		HttpRequestsTotal.WithLabelValues(serviceName, c.Request.Method, path, status).Inc()
		HttpRequestDuration.WithLabelValues(serviceName, c.Request.Method, path).Observe(duration)
	}
}

// routePath возвращает шаблон маршрута вместо фактического пути,
// чтобы идентификаторы не раздували кардинальность метрик
func routePath(c *gin.Context) string {
	if full := c.FullPath(); full != "" {
		return full
	}
	return "unmatched"
}
