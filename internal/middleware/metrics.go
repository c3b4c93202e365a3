package middleware

import (
	"strconv"
	"time"

	"Campus_Portal/internal/pkg"

	"github.com/gin-gonic/gin"
)

// Metrics 以路由模板作为 route 标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		pkg.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		pkg.HTTPLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
