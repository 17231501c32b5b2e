package models

import "time"

// Network Wi-Fi 网络配置
// 每个网络有独立的售价与访问时长，isActive=false 时从公开购买列表隐藏
type Network struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	SSID          string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"ssid"`
	TokenPrice    string    `gorm:"type:decimal(10,2);not null" json:"token_price"`
	TokenDuration string    `gorm:"type:varchar(10);not null" json:"token_duration"` // 小时数，按文本存储
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Network) TableName() string {
	return "networks"
}
