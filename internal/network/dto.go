package network

import (
	"time"

	"github.com/wifigate/WiFiGate-API/internal/models"
)

// CreateNetworkRequest 创建网络请求
type CreateNetworkRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	SSID          string `json:"ssid" binding:"required,max=100"`
	TokenPrice    string `json:"token_price" binding:"required"`
	TokenDuration string `json:"token_duration" binding:"required"`
	IsActive      *bool  `json:"is_active"`
}

// UpdateNetworkRequest 更新网络请求（字段均可选）
type UpdateNetworkRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	SSID          *string `json:"ssid" binding:"omitempty,max=100"`
	TokenPrice    *string `json:"token_price"`
	TokenDuration *string `json:"token_duration"`
	IsActive      *bool   `json:"is_active"`
}

// NetworkDTO 网络数据传输对象
type NetworkDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SSID          string    `json:"ssid"`
	TokenPrice    string    `json:"token_price"`
	TokenDuration string    `json:"token_duration"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToNetworkDTO 将 Network 模型转换为 DTO
func ToNetworkDTO(network *models.Network) *NetworkDTO {
	return &NetworkDTO{
		ID:            network.ID,
		Name:          network.Name,
		SSID:          network.SSID,
		TokenPrice:    network.TokenPrice,
		TokenDuration: network.TokenDuration,
		IsActive:      network.IsActive,
		CreatedAt:     network.CreatedAt,
		UpdatedAt:     network.UpdatedAt,
	}
}
