package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wifigate/WiFiGate-API/internal/models"
	"github.com/wifigate/WiFiGate-API/internal/network"
	"github.com/wifigate/WiFiGate-API/internal/notify"
	"github.com/wifigate/WiFiGate-API/internal/settings"
	"github.com/wifigate/WiFiGate-API/internal/token"
)

// TokenHandler Token 管理接口（需管理认证）
type TokenHandler struct {
	tokenService    *token.Service
	networkService  *network.Service
	settingsService *settings.Service
	notifyService   *notify.Service
}

// NewTokenHandler 创建 TokenHandler 实例
func NewTokenHandler(
	tokenService *token.Service,
	networkService *network.Service,
	settingsService *settings.Service,
	notifyService *notify.Service,
) *TokenHandler {
	return &TokenHandler{
		tokenService:    tokenService,
		networkService:  networkService,
		settingsService: settingsService,
		notifyService:   notifyService,
	}
}

// GenerateTokenRequest 管理员手动签发请求
type GenerateTokenRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,min=10"`
	NetworkID   string `json:"networkId"`
	Amount      string `json:"amount"`
}

// GenerateToken 管理员手动签发并短信下发访问码
// 免支付：金额可为零，支付引用使用手动签发哨兵值
func (h *TokenHandler) GenerateToken(c *gin.Context) {
	var req GenerateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Phone number is required",
			},
		})
		return
	}

	amount := req.Amount
	if amount == "" {
		amount = h.settingsService.DefaultPrice()
	}
	durationHours := h.settingsService.DefaultDurationHours()

	// 指定网络时使用网络的价格/时长
	if req.NetworkID != "" {
		net, err := h.networkService.GetNetwork(req.NetworkID)
		if err != nil {
			if errors.Is(err, network.ErrNetworkNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"error": gin.H{
						"code":    "NETWORK_NOT_FOUND",
						"message": "Network not found",
					},
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Error generating token",
				},
			})
			return
		}
		if req.Amount == "" {
			amount = net.TokenPrice
		}
		if hours, err := network.ParseDurationHours(net.TokenDuration); err == nil {
			durationHours = hours
		}
	}

	tok, err := h.tokenService.IssueToken(token.IssueRequest{
		PhoneNumber:      req.PhoneNumber,
		Amount:           amount,
		DurationHours:    durationHours,
		PaymentMethod:    models.PaymentMethodManual,
		PaymentReference: models.PaymentReferenceManual,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error generating token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"token":        tok.Code,
		"smsDelivered": tok.SmsDelivered,
	})
}

// ListTokens 获取所有 Token
func (h *TokenHandler) ListTokens(c *gin.Context) {
	tokens, err := h.tokenService.ListTokens()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error fetching tokens",
			},
		})
		return
	}

	c.JSON(http.StatusOK, toTokenDTOs(tokens))
}

// ListActiveTokens 获取未吊销且未过期的 Token
func (h *TokenHandler) ListActiveTokens(c *gin.Context) {
	tokens, err := h.tokenService.ListActiveTokens()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error fetching tokens",
			},
		})
		return
	}

	c.JSON(http.StatusOK, toTokenDTOs(tokens))
}

// RevokeToken 吊销 Token
func (h *TokenHandler) RevokeToken(c *gin.Context) {
	id := c.Param("id")

	if err := h.tokenService.RevokeToken(id); err != nil {
		if errors.Is(err, token.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "TOKEN_NOT_FOUND",
					"message": "Token not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error revoking token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Token revoked"})
}

// SendExpirationNotifications 触发过期提醒批处理
func (h *TokenHandler) SendExpirationNotifications(c *gin.Context) {
	attempted, err := h.notifyService.NotifyExpired()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Error sending notifications",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Attempted %d expiration notifications", attempted),
	})
}

// toTokenDTOs 批量转换为 DTO，管理端展示完整访问码
func toTokenDTOs(tokens []*models.Token) []*token.TokenDTO {
	dtos := make([]*token.TokenDTO, len(tokens))
	for i, tok := range tokens {
		dtos[i] = token.ToTokenDTO(tok, true)
	}
	return dtos
}
