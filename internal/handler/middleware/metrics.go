package middleware

import (
	"strconv"
	"time"

	"ciba-checkout/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware observes request latency labelled by the route template,
// so ids in paths do not explode label cardinality.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
