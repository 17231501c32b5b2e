package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/settings"
)

// SettingsHandler 全局配置接口
type SettingsHandler struct {
	service *settings.Service
}

// NewSettingsHandler 创建 SettingsHandler 实例
func NewSettingsHandler(service *settings.Service) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings 读取全部配置
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	values, err := h.service.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error fetching settings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, values)
}

// UpdateSettings 批量写入配置，按键最后写入生效
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Expected a flat key-value object",
			},
		})
		return
	}

	if err := h.service.SetAll(values); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error saving settings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
