package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zensha07/Edvance/internal/service"
)

// Metrics records request duration and status for every handled route.
// Unmatched requests are recorded under their raw URL path.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
