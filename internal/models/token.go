package models

import "time"

// PaymentReferenceManual 管理员手动生成 Token 时使用的支付引用哨兵值
const PaymentReferenceManual = "MANUAL_GENERATION"

// Token Wi-Fi 访问令牌
// 用户通过短信收到 8 位访问码，在 Portal 页面兑换后获得限时网络访问
type Token struct {
	ID               string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code             string     `gorm:"type:varchar(8);uniqueIndex;not null" json:"code"`
	PhoneNumber      string     `gorm:"type:varchar(20);not null" json:"phone_number"`
	Amount           string     `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod    string     `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentReference string     `gorm:"type:varchar(100);not null" json:"payment_reference"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt           *time.Time `json:"used_at,omitempty"`
	IsRevoked        bool       `gorm:"not null;default:false" json:"is_revoked"`
	SmsDelivered     bool       `gorm:"not null;default:false" json:"sms_delivered"`
	SmsError         string     `gorm:"type:text" json:"sms_error,omitempty"`
}

// TableName 指定表名
func (Token) TableName() string {
	return "tokens"
}

// IsExpired Token 是否已过期
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
