package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/admin"
)

// AuthHandler 管理端登录接口
type AuthHandler struct {
	adminService *admin.Service
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(adminService *admin.Service) *AuthHandler {
	return &AuthHandler{adminService: adminService}
}

// LoginRequest 管理端登录请求
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login 共享密码换取 24 小时会话凭证
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Password is required",
			},
		})
		return
	}

	credential, err := h.adminService.Login(req.Password)
	if err != nil {
		if errors.Is(err, admin.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_PASSWORD",
					"message": "Invalid password",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "AUTH_ERROR",
				"message": "Login failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": credential})
}
