package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func GinLoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()

		event := Debug()
		if status >= 500 {
			event = Error()
		} else if status >= 400 {
			event = Warn()
		}

		logEvent := event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_addr", c.ClientIP()).
			Int("status", status).
			Dur("duration", time.Since(start))

		if len(c.Errors) > 0 {
			logEvent.Str("error", c.Errors.String())
		}

		logEvent.Msg("HTTP request")
	}
}
