package token

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wifigate/WiFiGate-API/internal/events"
	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/models"
	"github.com/wifigate/WiFiGate-API/internal/sms"
)

var (
	// ErrTokenRevoked Token 已被吊销
	ErrTokenRevoked = errors.New("token revoked")
	// ErrTokenExpired Token 已过期
	ErrTokenExpired = errors.New("token expired")
	// ErrPhoneNumberRequired 手机号不能为空
	ErrPhoneNumberRequired = errors.New("phone number is required")
	// ErrInvalidDuration 访问时长必须为正数
	ErrInvalidDuration = errors.New("token duration must be positive")
)

// IssueRequest 签发 Token 请求
type IssueRequest struct {
	PhoneNumber      string
	Amount           string // 十进制字符串，管理员手动签发时为 "0"
	DurationHours    int
	PaymentMethod    string
	PaymentReference string
}

// Service Token 业务逻辑层
type Service struct {
	repo         *Repository
	sender       sms.Sender
	eventService *events.Service
	logger       *logger.Logger
}

// NewService 创建 Service 实例
func NewService(repo *Repository, sender sms.Sender, eventService *events.Service, log *logger.Logger) *Service {
	return &Service{repo: repo, sender: sender, eventService: eventService, logger: log}
}

// IssueToken 签发 Token
// 生成访问码、计算过期时间并持久化，随后下发短信。
// 短信失败只记录错误，不回滚 Token（支付已确认的 Token 始终有效）
func (s *Service) IssueToken(req IssueRequest) (*models.Token, error) {
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, ErrPhoneNumberRequired
	}
	if req.DurationHours <= 0 {
		return nil, ErrInvalidDuration
	}
	if req.Amount == "" {
		req.Amount = "0"
	}

	// 生成唯一访问码，冲突时换新码重试
	var code string
	maxRetries := 5
	for i := 0; i < maxRetries; i++ {
		generated, err := GenerateCode()
		if err != nil {
			return nil, err
		}

		exists, err := s.repo.CheckCodeExists(generated)
		if err != nil {
			return nil, err
		}
		if !exists {
			code = generated
			break
		}

		if i == maxRetries-1 {
			return nil, ErrCodeExists
		}
	}

	now := time.Now()
	token := &models.Token{
		ID:               uuid.NewString(),
		Code:             code,
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		ExpiresAt:        now.Add(time.Duration(req.DurationHours) * time.Hour),
		UsedAt:           nil,
		IsRevoked:        false,
		SmsDelivered:     false,
	}

	if err := s.repo.Create(token); err != nil {
		return nil, err
	}

	s.logIssued(token)

	// 短信下发：成功标记 smsDelivered，失败记录错误串但保留 Token
	body := sms.FormatTokenMessage(token.Code, req.DurationHours)
	if err := s.sender.Send(token.PhoneNumber, body); err != nil {
		s.logger.Errorf("短信发送失败 phone=%s: %v", token.PhoneNumber, err)
		token.SmsError = err.Error()
		if updateErr := s.repo.UpdateSmsStatus(token.ID, false, err.Error()); updateErr != nil {
			s.logger.Errorf("更新短信状态失败: %v", updateErr)
		}
		s.logSmsFailed(token, err)
		return token, nil
	}

	token.SmsDelivered = true
	if err := s.repo.UpdateSmsStatus(token.ID, true, ""); err != nil {
		s.logger.Errorf("更新短信状态失败: %v", err)
	}

	return token, nil
}

// ValidateToken 验证访问码（Portal 兑换入口）
// 分类优先级：不存在 → 已吊销 → 已过期 → 有效。
// 首次验证成功时写入 usedAt，后续验证不再改写但继续放行（支持重连）
func (s *Service) ValidateToken(code string) (*models.Token, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	token, err := s.repo.FindByCode(normalized)
	if err != nil {
		return nil, err
	}

	if token.IsRevoked {
		return nil, ErrTokenRevoked
	}

	now := time.Now()
	if token.IsExpired(now) {
		return nil, ErrTokenExpired
	}

	// 首次使用标记；条件更新保证并发下 usedAt 只写一次
	if token.UsedAt == nil {
		if err := s.repo.MarkUsed(token.ID, now); err != nil {
			return nil, err
		}
		token.UsedAt = &now
		if err := s.eventService.LogInfo(models.EventTypeTokenValidated,
			"Token redeemed on portal",
			map[string]interface{}{"token_id": token.ID}); err != nil {
			s.logger.Errorf("记录事件失败: %v", err)
		}
	}

	return token, nil
}

// GetToken 根据 ID 获取 Token
func (s *Service) GetToken(id string) (*models.Token, error) {
	return s.repo.FindByID(id)
}

// FindByPaymentReference 根据支付引用查找已签发的 Token
func (s *Service) FindByPaymentReference(reference string) (*models.Token, error) {
	return s.repo.FindByPaymentReference(reference)
}

// ListTokens 获取所有 Token 列表
func (s *Service) ListTokens() ([]*models.Token, error) {
	return s.repo.FindAll()
}

// ListActiveTokens 获取未吊销且未过期的 Token 列表
func (s *Service) ListActiveTokens() ([]*models.Token, error) {
	return s.repo.FindActive(time.Now())
}

// RevokeToken 吊销 Token（单向操作）
func (s *Service) RevokeToken(id string) error {
	if err := s.repo.Revoke(id); err != nil {
		return err
	}

	if err := s.eventService.LogWarning(models.EventTypeTokenRevoked,
		"Token revoked by administrator",
		map[string]interface{}{"token_id": id}); err != nil {
		s.logger.Errorf("记录事件失败: %v", err)
	}
	return nil
}

// logIssued 记录签发事件
func (s *Service) logIssued(token *models.Token) {
	if err := s.eventService.LogInfo(models.EventTypeTokenIssued,
		"Access token issued",
		map[string]interface{}{
			"token_id":       token.ID,
			"payment_method": token.PaymentMethod,
			"amount":         token.Amount,
		}); err != nil {
		s.logger.Errorf("记录事件失败: %v", err)
	}
}

// logSmsFailed 记录短信失败事件
func (s *Service) logSmsFailed(token *models.Token, sendErr error) {
	if err := s.eventService.LogError(models.EventTypeSmsFailed,
		"SMS delivery failed",
		map[string]interface{}{
			"token_id": token.ID,
			"error":    sendErr.Error(),
		}); err != nil {
		s.logger.Errorf("记录事件失败: %v", err)
	}
}
