package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voltride-motors/dealership-api/internal/service"
)

// Metrics observes every request's method, route, status and latency.
// The scrape endpoint itself is excluded to keep the series clean.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
