package payment

import (
	"errors"

	"github.com/google/uuid"
	"github.com/wifigate/WiFiGate-API/internal/events"
	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/models"
	"github.com/wifigate/WiFiGate-API/internal/network"
	"github.com/wifigate/WiFiGate-API/internal/settings"
	"github.com/wifigate/WiFiGate-API/internal/token"
)

var (
	// ErrNetworkInactive 网络已停用，不可购买
	ErrNetworkInactive = errors.New("network is not active")
	// ErrAmountRequired 未指定网络时必须给出金额
	ErrAmountRequired = errors.New("amount is required when no network is selected")
)

// CheckoutRequest 发起购买请求
// 指定 NetworkID 时价格/时长取自网络配置，否则使用金额 + 默认时长
type CheckoutRequest struct {
	PhoneNumber string
	NetworkID   string
	Amount      string
	Method      string
}

// Service 支付编排层
// 负责发起支付、在 Webhook 确认后签发 Token（支付失败不发码，fail-closed）
type Service struct {
	repo            *Repository
	providers       map[string]Provider
	tokenService    *token.Service
	networkService  *network.Service
	settingsService *settings.Service
	eventService    *events.Service
	logger          *logger.Logger
}

// NewService 创建 Service 实例
func NewService(
	repo *Repository,
	providers []Provider,
	tokenService *token.Service,
	networkService *network.Service,
	settingsService *settings.Service,
	eventService *events.Service,
	log *logger.Logger,
) *Service {
	byMethod := make(map[string]Provider, len(providers))
	for _, p := range providers {
		byMethod[p.Method()] = p
	}
	return &Service{
		repo:            repo,
		providers:       byMethod,
		tokenService:    tokenService,
		networkService:  networkService,
		settingsService: settingsService,
		eventService:    eventService,
		logger:          log,
	}
}

// CreateCheckout 发起支付
// 创建待支付记录保存购买上下文，Token 在渠道确认后才签发
func (s *Service) CreateCheckout(req CheckoutRequest) (*Checkout, error) {
	provider, ok := s.providers[req.Method]
	if !ok {
		return nil, ErrMethodNotSupported
	}

	amount := req.Amount
	networkID := ""
	if req.NetworkID != "" {
		net, err := s.networkService.GetNetwork(req.NetworkID)
		if err != nil {
			return nil, err
		}
		if !net.IsActive {
			return nil, ErrNetworkInactive
		}
		amount = net.TokenPrice
		networkID = net.ID
	}
	if amount == "" {
		return nil, ErrAmountRequired
	}

	payment := &models.Payment{
		ID:          uuid.NewString(),
		Reference:   uuid.NewString(), // Stripe 渠道会以 PaymentIntent ID 覆盖
		PhoneNumber: req.PhoneNumber,
		NetworkID:   networkID,
		Amount:      amount,
		Method:      req.Method,
		Status:      models.PaymentStatusPending,
	}

	checkout, err := provider.CreatePayment(payment)
	if err != nil {
		return nil, err
	}
	payment.PollURL = checkout.PollURL

	if err := s.repo.Create(payment); err != nil {
		return nil, err
	}

	return checkout, nil
}

// ConfirmPayment 渠道确认支付后签发 Token
// 幂等：同一 reference 不会重复发码，重放 Webhook 返回已签发的 Token
func (s *Service) ConfirmPayment(reference string) (*models.Token, error) {
	payment, err := s.repo.FindByReference(reference)
	if err != nil {
		return nil, err
	}

	if payment.TokenID != "" {
		return s.tokenService.GetToken(payment.TokenID)
	}

	// 上次确认可能在绑定 Token 前中断：按支付引用复查，避免重试时重复发码
	existing, err := s.tokenService.FindByPaymentReference(payment.Reference)
	if err == nil {
		if err := s.repo.AttachToken(payment.ID, existing.ID); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, token.ErrTokenNotFound) {
		return nil, err
	}

	// 时长取自网络配置；网络已被删除时回退到全局默认值
	durationHours := s.settingsService.DefaultDurationHours()
	if payment.NetworkID != "" {
		if net, err := s.networkService.GetNetwork(payment.NetworkID); err == nil {
			if hours, err := network.ParseDurationHours(net.TokenDuration); err == nil {
				durationHours = hours
			}
		}
	}

	issued, err := s.tokenService.IssueToken(token.IssueRequest{
		PhoneNumber:      payment.PhoneNumber,
		Amount:           payment.Amount,
		DurationHours:    durationHours,
		PaymentMethod:    payment.Method,
		PaymentReference: payment.Reference,
	})
	if err != nil {
		return nil, err
	}

	// 绑定失败必须向调用方报错，让渠道重试；重试时上面的引用复查会命中已发的码
	if err := s.repo.AttachToken(payment.ID, issued.ID); err != nil {
		return nil, err
	}

	if err := s.eventService.LogInfo(models.EventTypePaymentConfirmed,
		"Payment confirmed, token issued",
		map[string]interface{}{
			"reference": payment.Reference,
			"method":    payment.Method,
			"amount":    payment.Amount,
		}); err != nil {
		s.logger.Errorf("记录事件失败: %v", err)
	}

	return issued, nil
}

// FailPayment 标记支付失败
func (s *Service) FailPayment(reference, reason string) error {
	payment, err := s.repo.FindByReference(reference)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(payment.ID, models.PaymentStatusFailed); err != nil {
		return err
	}

	if err := s.eventService.LogWarning(models.EventTypePaymentFailed,
		"Payment failed: "+reason,
		map[string]interface{}{"reference": reference}); err != nil {
		s.logger.Errorf("记录事件失败: %v", err)
	}
	return nil
}
