package models

import "time"

// 支付方式常量
const (
	PaymentMethodStripe      = "stripe"
	PaymentMethodPaynow      = "paynow"
	PaymentMethodMobileMoney = "mobile_money"
	PaymentMethodManual      = "manual"
)

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Payment 支付记录
// 在发起支付与 Webhook 确认之间保存购买上下文（手机号、网络），
// 同时让 Webhook 处理具备幂等性：TokenID 已填写的支付不会重复发码
type Payment struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Reference   string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	PhoneNumber string    `gorm:"type:varchar(20);not null" json:"phone_number"`
	NetworkID   string    `gorm:"type:varchar(36)" json:"network_id,omitempty"`
	Amount      string    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method      string    `gorm:"type:varchar(20);not null" json:"method"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PollURL     string    `gorm:"type:varchar(255)" json:"poll_url,omitempty"`
	TokenID     string    `gorm:"type:varchar(36)" json:"token_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
