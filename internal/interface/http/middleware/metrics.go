package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/pkg/metrics"
)

// unmatchedRoute 未匹配路由的统一标签，避免任意路径导致标签基数膨胀
const unmatchedRoute = "unmatched"

// Metrics HTTP指标中间件
// path标签使用路由模板（如/api/v1/books/:id），而不是实际路径
func Metrics() gin.HandlerFunc {
	metrics.InitMetrics()

	return func(c *gin.Context) {
		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		defer metrics.DecGauge(metrics.HTTPRequestsInProgress)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}
