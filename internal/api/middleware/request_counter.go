package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/stats"
)

// RequestCounterMiddleware 请求计数中间件
func RequestCounterMiddleware(counter *stats.RequestCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		counter.Increment()
		c.Next()
	}
}
