package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/events"
	"github.com/wifigate/WiFiGate-API/internal/stats"
)

// StatsHandler 仪表盘统计接口
type StatsHandler struct {
	dashboard      *stats.Dashboard
	requestCounter *stats.RequestCounter
	eventService   *events.Service
}

// NewStatsHandler 创建 StatsHandler 实例
func NewStatsHandler(dashboard *stats.Dashboard, requestCounter *stats.RequestCounter, eventService *events.Service) *StatsHandler {
	return &StatsHandler{
		dashboard:      dashboard,
		requestCounter: requestCounter,
		eventService:   eventService,
	}
}

// RequestStats 请求统计
type RequestStats struct {
	Total      int64   `json:"total"`
	CurrentQPS float64 `json:"current_qps"`
}

// GetStats 获取仪表盘统计数据
func (h *StatsHandler) GetStats(c *gin.Context) {
	tokenStats, err := h.dashboard.TokenStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error fetching stats",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokenStats,
		"requests": RequestStats{
			Total:      h.requestCounter.Total(),
			CurrentQPS: h.requestCounter.CurrentQPS(),
		},
	})
}

// GetEvents 获取最近的系统事件
func (h *StatsHandler) GetEvents(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	var (
		list interface{}
		err  error
	)
	if eventType := c.Query("type"); eventType != "" {
		list, err = h.eventService.GetEventsByType(eventType, limit)
	} else {
		list, err = h.eventService.GetRecentEvents(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error fetching events",
			},
		})
		return
	}

	c.JSON(http.StatusOK, list)
}
