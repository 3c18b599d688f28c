package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/pkg/metrics"
)

// Endpoints that would dominate the latency histogram without telling us
// anything about the API.
var unobservedPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// Metrics records request latency per route pattern. Requests that matched no
// route share an "unmatched" label so probes cannot blow up the cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, skip := unobservedPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		metrics.APILatency.WithLabelValues(c.Request.Method, path, status).Observe(duration)
	}
}
