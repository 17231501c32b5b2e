package models

import "time"

// SystemEvent 系统事件日志
// 用于记录 Token 生命周期与支付、短信等重要事件
type SystemEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Level     string    `gorm:"type:varchar(20);not null;default:'info'" json:"level"` // info, warning, error
	Metadata  string    `gorm:"type:json" json:"metadata,omitempty"`                   // 额外的元数据（JSON 格式）
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (SystemEvent) TableName() string {
	return "system_events"
}

// EventType 事件类型常量
const (
	EventTypeTokenIssued      = "token_issued"      // Token 签发
	EventTypeTokenValidated   = "token_validated"   // Token 首次兑换
	EventTypeTokenRevoked     = "token_revoked"     // Token 吊销
	EventTypeSmsFailed        = "sms_failed"        // 短信发送失败
	EventTypePaymentConfirmed = "payment_confirmed" // 支付确认
	EventTypePaymentFailed    = "payment_failed"    // 支付失败
	EventTypeNetworkChange    = "network_change"    // 网络配置变更
	EventTypeSettingsChange   = "settings_change"   // 全局配置变更
)

// EventLevel 事件级别常量
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)
