package models

import "time"

// Setting 全局键值配置
// 无关系结构，按键最后写入生效
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}

// 已知配置键
const (
	SettingNetworkName          = "network_name"           // Portal 显示的网络名称
	SettingDefaultTokenPrice    = "default_token_price"    // 默认 Token 售价
	SettingDefaultTokenDuration = "default_token_duration" // 默认 Token 时长（小时）
	SettingAutoCleanupEnabled   = "auto_cleanup_enabled"   // 是否自动清理过期 Token
)
