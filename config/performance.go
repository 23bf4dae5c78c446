package config

import (
	"time"

	"easyhora-backend/logger"
	"easyhora-backend/metrics"

	"github.com/gin-gonic/gin"
)

const slowRequestThreshold = 200 * time.Millisecond

// PerformanceLogger logs every request with its latency and records it in m.
func PerformanceLogger(log *logger.Logger, m *metrics.HTTPMetrics) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), latency.Seconds())

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
		}
		if salonID, ok := c.Get("salonId"); ok {
			fields = append(fields, "salon_id", salonID)
		}
		log.Infow("request", fields...)

		if latency > slowRequestThreshold {
			log.Warnw("slow request", fields...)
		}
	}
}
