package payment

import (
	"fmt"
	"strconv"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/wifigate/WiFiGate-API/internal/config"
	"github.com/wifigate/WiFiGate-API/internal/models"
)

// StripeProvider Stripe 支付渠道
type StripeProvider struct {
	webhookSecret string
}

// NewStripeProvider 创建 StripeProvider 实例
func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	stripe.Key = cfg.SecretKey
	return &StripeProvider{webhookSecret: cfg.WebhookSecret}
}

// Method 返回支付方式标识
func (p *StripeProvider) Method() string {
	return models.PaymentMethodStripe
}

// CreatePayment 创建 PaymentIntent
// 手机号与网络 ID 写入 metadata，便于对账
func (p *StripeProvider) CreatePayment(payment *models.Payment) (*Checkout, error) {
	cents, err := amountToCents(payment.Amount)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("phone_number", payment.PhoneNumber)
	params.AddMetadata("network_id", payment.NetworkID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("创建 payment intent 失败: %w", err)
	}

	payment.Reference = intent.ID
	return &Checkout{
		Reference:    intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// ConstructWebhookEvent 校验 Webhook 签名并解析事件
func (p *StripeProvider) ConstructWebhookEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
}

// amountToCents 将十进制金额字符串转换为美分
// 整数运算，不经过浮点；小数部分最多两位
func amountToCents(amount string) (int64, error) {
	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" || len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount: %q", amount)
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, fmt.Errorf("invalid amount: %q", amount)
	}

	cents := int64(0)
	if frac != "" {
		// "5" 表示 50 美分，"05" 表示 5 美分
		parsed, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || parsed < 0 {
			return 0, fmt.Errorf("invalid amount: %q", amount)
		}
		cents = parsed
		if len(frac) == 1 {
			cents *= 10
		}
	}

	return dollars*100 + cents, nil
}
