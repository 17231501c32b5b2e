package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/network"
	"github.com/wifigate/WiFiGate-API/internal/payment"
	"github.com/wifigate/WiFiGate-API/internal/token"
)

// PortalHandler 面向终端用户的 Portal 接口
// 购买访问码与兑换验证，不要求管理认证
type PortalHandler struct {
	paymentService *payment.Service
	tokenService   *token.Service
}

// NewPortalHandler 创建 PortalHandler 实例
func NewPortalHandler(paymentService *payment.Service, tokenService *token.Service) *PortalHandler {
	return &PortalHandler{paymentService: paymentService, tokenService: tokenService}
}

// PurchaseTokenRequest 购买访问码请求
type PurchaseTokenRequest struct {
	PhoneNumber   string `json:"phoneNumber" binding:"required,min=10"`
	NetworkID     string `json:"networkId"`
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// ValidateTokenRequest 兑换验证请求
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// PurchaseToken 发起访问码购买
// 支付确认（同步或 Webhook）之后才会签发访问码
func (h *PortalHandler) PurchaseToken(c *gin.Context) {
	var req PurchaseTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Phone number and payment method are required",
		})
		return
	}

	checkout, err := h.paymentService.CreateCheckout(payment.CheckoutRequest{
		PhoneNumber: req.PhoneNumber,
		NetworkID:   req.NetworkID,
		Amount:      req.Amount,
		Method:      req.PaymentMethod,
	})
	if err != nil {
		h.handleCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"reference":    checkout.Reference,
		"paymentUrl":   checkout.RedirectURL,
		"clientSecret": checkout.ClientSecret,
	})
}

// ValidateToken 验证访问码（Portal 兑换入口）
func (h *PortalHandler) ValidateToken(c *gin.Context) {
	var req ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid":   false,
			"message": "Token is required",
		})
		return
	}

	tok, err := h.tokenService.ValidateToken(req.Token)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"valid":   false,
				"message": "Invalid token",
			})
		case errors.Is(err, token.ErrTokenRevoked):
			c.JSON(http.StatusForbidden, gin.H{
				"valid":   false,
				"message": "Token has been revoked",
			})
		case errors.Is(err, token.ErrTokenExpired):
			c.JSON(http.StatusForbidden, gin.H{
				"valid":   false,
				"message": "Token has expired",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"valid":   false,
				"message": "Error validating token",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"message":   "Access granted",
		"expiresAt": tok.ExpiresAt,
	})
}

// handleCheckoutError 处理发起支付的错误
func (h *PortalHandler) handleCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrMethodNotSupported),
		errors.Is(err, payment.ErrAmountRequired),
		errors.Is(err, payment.ErrNetworkInactive):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
	case errors.Is(err, network.ErrNetworkNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Network not found",
		})
	case errors.Is(err, payment.ErrProviderNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Payment processing not configured",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error creating payment: " + err.Error(),
		})
	}
}
