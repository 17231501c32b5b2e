package payment

import (
	"errors"

	"github.com/wifigate/WiFiGate-API/internal/models"
)

var (
	// ErrMethodNotSupported 不支持的支付方式
	ErrMethodNotSupported = errors.New("payment method not supported")
	// ErrProviderNotConfigured 支付渠道未配置
	ErrProviderNotConfigured = errors.New("payment provider not configured")
)

// Checkout 发起支付的结果
// Stripe 返回 ClientSecret 由前端确认；Paynow 返回跳转地址与轮询地址
type Checkout struct {
	Reference    string `json:"reference"`
	RedirectURL  string `json:"payment_url,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
	PollURL      string `json:"-"`
}

// Provider 支付渠道接口
// CreatePayment 负责在外部渠道创建支付意向并填充 payment.Reference
type Provider interface {
	Method() string
	CreatePayment(payment *models.Payment) (*Checkout, error)
}
