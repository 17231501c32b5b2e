package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/admin"
)

// AdminAuthMiddleware 管理端认证中间件
// 校验 Authorization 头中的 Bearer 会话凭证
func AdminAuthMiddleware(adminService *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 提取 Authorization 头
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "MISSING_AUTH_HEADER",
					"message": "Missing authorization header",
				},
			})
			c.Abort()
			return
		}

		// 2. 解析 Bearer 凭证
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_AUTH_FORMAT",
					"message": "Invalid authorization format. Expected: Bearer <token>",
				},
			})
			c.Abort()
			return
		}

		// 3. 校验会话凭证
		if err := adminService.Verify(parts[1]); err != nil {
			handleAuthError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// handleAuthError 处理认证错误
func handleAuthError(c *gin.Context, err error) {
	var code, message string

	switch {
	case errors.Is(err, admin.ErrSessionExpired):
		code = "SESSION_EXPIRED"
		message = "Session expired, please log in again"
	case errors.Is(err, admin.ErrInvalidSession):
		code = "INVALID_SESSION"
		message = "Invalid session credential"
	default:
		code = "AUTH_ERROR"
		message = "Authentication failed"
	}

	c.JSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
