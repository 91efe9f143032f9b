package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"infofix/backend/pkg/metrics"
)

// Metrics Prometheus 请求指标中间件
// 使用路由模板（c.FullPath）作为标签，避免路径参数导致标签基数膨胀
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPLatency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
