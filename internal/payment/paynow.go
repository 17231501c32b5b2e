package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wifigate/WiFiGate-API/internal/config"
	"github.com/wifigate/WiFiGate-API/internal/models"
)

const (
	paynowInitiateURL = "https://www.paynow.co.zw/interface/initiatetransaction"
	paynowRemoteURL   = "https://www.paynow.co.zw/interface/remotetransaction"

	// PaynowStatusPaid 结果回调中的已支付状态
	PaynowStatusPaid = "Paid"
	// PaynowStatusCancelled 结果回调中的已取消状态
	PaynowStatusCancelled = "Cancelled"
)

var (
	// ErrPaynowBadResponse Paynow 返回错误响应
	ErrPaynowBadResponse = errors.New("paynow returned an error response")
	// ErrPaynowBadHash 回调散列校验失败
	ErrPaynowBadHash = errors.New("paynow hash verification failed")
)

// PaynowProvider Paynow 支付渠道
// mobile 为 true 时走 Express（移动钱包）流程，买家手机号直接发起扣款
type PaynowProvider struct {
	cfg        config.PaynowConfig
	httpClient *http.Client
	initiate   string
	remote     string
	mobile     bool
}

// NewPaynowProvider 创建 PaynowProvider 实例
func NewPaynowProvider(cfg config.PaynowConfig, mobile bool) *PaynowProvider {
	return &PaynowProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		initiate:   paynowInitiateURL,
		remote:     paynowRemoteURL,
		mobile:     mobile,
	}
}

// Method 返回支付方式标识
func (p *PaynowProvider) Method() string {
	if p.mobile {
		return models.PaymentMethodMobileMoney
	}
	return models.PaymentMethodPaynow
}

// CreatePayment 向 Paynow 发起交易
// 协议为表单编码请求 + SHA512 完整性散列；payment.Reference 须由调用方预先填好
func (p *PaynowProvider) CreatePayment(payment *models.Payment) (*Checkout, error) {
	if p.cfg.IntegrationID == "" || p.cfg.IntegrationKey == "" {
		return nil, ErrProviderNotConfigured
	}

	fields := []field{
		{"resulturl", p.cfg.ResultURL},
		{"returnurl", p.cfg.ReturnURL},
		{"reference", payment.Reference},
		{"amount", payment.Amount},
		{"id", p.cfg.IntegrationID},
		{"additionalinfo", "Wi-Fi access token"},
		{"authemail", ""},
		{"status", "Message"},
	}

	endpoint := p.initiate
	if p.mobile {
		endpoint = p.remote
		fields = append(fields,
			field{"phone", payment.PhoneNumber},
			field{"method", "ecocash"},
		)
	}

	body := encodeWithHash(fields, p.cfg.IntegrationKey)

	resp, err := p.httpClient.Post(endpoint, "application/x-www-form-urlencoded",
		strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("paynow 请求失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 65536))
	if err != nil {
		return nil, fmt.Errorf("读取 paynow 响应失败: %w", err)
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, fmt.Errorf("解析 paynow 响应失败: %w", err)
	}

	if !strings.EqualFold(values.Get("status"), "Ok") {
		return nil, fmt.Errorf("%w: %s", ErrPaynowBadResponse, values.Get("error"))
	}

	return &Checkout{
		Reference:   payment.Reference,
		RedirectURL: values.Get("browserurl"),
		PollURL:     values.Get("pollurl"),
	}, nil
}

// ParseResult 解析并校验结果回调
// 按原始字段顺序拼接值计算散列，与回调中的 hash 比对
func (p *PaynowProvider) ParseResult(rawBody string) (map[string]string, error) {
	result := make(map[string]string)
	var concat strings.Builder
	var receivedHash string

	for _, pair := range strings.Split(rawBody, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("解析回调字段失败: %w", err)
		}
		name, err := url.QueryUnescape(key)
		if err != nil {
			return nil, fmt.Errorf("解析回调字段失败: %w", err)
		}

		if strings.EqualFold(name, "hash") {
			receivedHash = decoded
			continue
		}
		result[strings.ToLower(name)] = decoded
		concat.WriteString(decoded)
	}

	expected := hashFields(concat.String(), p.cfg.IntegrationKey)
	if receivedHash == "" || !strings.EqualFold(receivedHash, expected) {
		return nil, ErrPaynowBadHash
	}
	return result, nil
}

// field 保序的表单字段
type field struct {
	name  string
	value string
}

// encodeWithHash 编码表单并追加 SHA512 散列字段
func encodeWithHash(fields []field, integrationKey string) string {
	var concat strings.Builder
	var form strings.Builder

	for i, f := range fields {
		concat.WriteString(f.value)
		if i > 0 {
			form.WriteByte('&')
		}
		form.WriteString(url.QueryEscape(f.name))
		form.WriteByte('=')
		form.WriteString(url.QueryEscape(f.value))
	}

	form.WriteString("&hash=")
	form.WriteString(url.QueryEscape(hashFields(concat.String(), integrationKey)))
	return form.String()
}

// hashFields 计算 Paynow 完整性散列：值串联 + 集成密钥，SHA512 大写十六进制
func hashFields(concatenated, integrationKey string) string {
	sum := sha512.Sum512([]byte(concatenated + integrationKey))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
