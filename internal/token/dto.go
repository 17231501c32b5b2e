package token

import (
	"time"

	"github.com/wifigate/WiFiGate-API/internal/models"
)

// TokenDTO Token 数据传输对象
type TokenDTO struct {
	ID               string     `json:"id"`
	Code             string     `json:"code,omitempty"` // 仅签发响应返回完整访问码
	CodeDisplay      string     `json:"code_display"`   // 脱敏显示
	PhoneNumber      string     `json:"phone_number"`
	Amount           string     `json:"amount"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentReference string     `json:"payment_reference"`
	CreatedAt        time.Time  `json:"created_at"`
	ExpiresAt        time.Time  `json:"expires_at"`
	UsedAt           *time.Time `json:"used_at,omitempty"`
	IsRevoked        bool       `json:"is_revoked"`
	SmsDelivered     bool       `json:"sms_delivered"`
	SmsError         string     `json:"sms_error,omitempty"`
}

// MaskCode 脱敏显示访问码
// 格式: ****{最后2位}
func MaskCode(code string) string {
	if len(code) < 4 {
		return "****"
	}
	return "****" + code[len(code)-2:]
}

// ToTokenDTO 将 Token 模型转换为 DTO
func ToTokenDTO(token *models.Token, showFullCode bool) *TokenDTO {
	dto := &TokenDTO{
		ID:               token.ID,
		CodeDisplay:      MaskCode(token.Code),
		PhoneNumber:      token.PhoneNumber,
		Amount:           token.Amount,
		PaymentMethod:    token.PaymentMethod,
		PaymentReference: token.PaymentReference,
		CreatedAt:        token.CreatedAt,
		ExpiresAt:        token.ExpiresAt,
		UsedAt:           token.UsedAt,
		IsRevoked:        token.IsRevoked,
		SmsDelivered:     token.SmsDelivered,
		SmsError:         token.SmsError,
	}

	if showFullCode {
		dto.Code = token.Code
	}
	return dto
}
