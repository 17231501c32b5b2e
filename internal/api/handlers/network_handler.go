package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/models"
	"github.com/wifigate/WiFiGate-API/internal/network"
)

// NetworkHandler 网络配置接口
type NetworkHandler struct {
	service *network.Service
}

// NewNetworkHandler 创建 NetworkHandler 实例
func NewNetworkHandler(service *network.Service) *NetworkHandler {
	return &NetworkHandler{service: service}
}

// CreateNetwork 创建网络
func (h *NetworkHandler) CreateNetwork(c *gin.Context) {
	var req network.CreateNetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request parameters",
				"details": err.Error(),
			},
		})
		return
	}

	net, err := h.service.CreateNetwork(req)
	if err != nil {
		h.handleNetworkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, network.ToNetworkDTO(net))
}

// ListNetworks 获取所有网络
func (h *NetworkHandler) ListNetworks(c *gin.Context) {
	networks, err := h.service.ListNetworks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error fetching networks",
			},
		})
		return
	}

	c.JSON(http.StatusOK, toNetworkDTOs(networks))
}

// ListActiveNetworks 获取启用中的网络（公开，供购买页选择）
func (h *NetworkHandler) ListActiveNetworks(c *gin.Context) {
	networks, err := h.service.ListActiveNetworks()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error fetching networks",
			},
		})
		return
	}

	c.JSON(http.StatusOK, toNetworkDTOs(networks))
}

// GetNetwork 获取单个网络
func (h *NetworkHandler) GetNetwork(c *gin.Context) {
	net, err := h.service.GetNetwork(c.Param("id"))
	if err != nil {
		h.handleNetworkError(c, err)
		return
	}

	c.JSON(http.StatusOK, network.ToNetworkDTO(net))
}

// UpdateNetwork 更新网络
func (h *NetworkHandler) UpdateNetwork(c *gin.Context) {
	var req network.UpdateNetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request parameters",
				"details": err.Error(),
			},
		})
		return
	}

	net, err := h.service.UpdateNetwork(c.Param("id"), req)
	if err != nil {
		h.handleNetworkError(c, err)
		return
	}

	c.JSON(http.StatusOK, network.ToNetworkDTO(net))
}

// DeleteNetwork 删除网络
// 已签发 Token 保留签发时的价格/时长快照，不受影响
func (h *NetworkHandler) DeleteNetwork(c *gin.Context) {
	if err := h.service.DeleteNetwork(c.Param("id")); err != nil {
		h.handleNetworkError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleNetworkError 处理网络相关错误
func (h *NetworkHandler) handleNetworkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, network.ErrNetworkNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "NETWORK_NOT_FOUND",
				"message": "Network not found",
			},
		})
	case errors.Is(err, network.ErrNameExists):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "NAME_EXISTS",
				"message": "Network name already exists",
			},
		})
	case errors.Is(err, network.ErrSSIDExists):
		c.JSON(http.StatusConflict, gin.H{
			"error": gin.H{
				"code":    "SSID_EXISTS",
				"message": "Network SSID already exists",
			},
		})
	case errors.Is(err, network.ErrInvalidDuration):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_DURATION",
				"message": "Token duration must be a positive number of hours",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Internal server error",
			},
		})
	}
}

// toNetworkDTOs 批量转换为 DTO
func toNetworkDTOs(networks []*models.Network) []*network.NetworkDTO {
	dtos := make([]*network.NetworkDTO, len(networks))
	for i, net := range networks {
		dtos[i] = network.ToNetworkDTO(net)
	}
	return dtos
}
