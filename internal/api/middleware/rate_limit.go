package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"infofix/backend/pkg/redis"
	"infofix/backend/pkg/response"
)

// RateLimit 基于 Redis 固定窗口计数的速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 窗口时长
// rdb 为 nil 时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		subject := c.ClientIP()
		if uid, ok := c.Get("user_id"); ok {
			subject = fmt.Sprint(uid)
		}
		key := fmt.Sprintf("%s:%s:%s", subject, c.Request.Method, c.FullPath())

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
