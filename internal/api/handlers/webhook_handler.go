package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/payment"
)

// WebhookHandler 支付渠道回调接口
// 签名/散列校验通过后确认支付并签发 Token
type WebhookHandler struct {
	paymentService *payment.Service
	stripeProvider *payment.StripeProvider
	paynowProvider *payment.PaynowProvider
	logger         *logger.Logger
}

// NewWebhookHandler 创建 WebhookHandler 实例
func NewWebhookHandler(
	paymentService *payment.Service,
	stripeProvider *payment.StripeProvider,
	paynowProvider *payment.PaynowProvider,
	log *logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		stripeProvider: stripeProvider,
		paynowProvider: paynowProvider,
		logger:         log,
	}
}

// HandleStripeWebhook 处理 Stripe 事件回调
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	if h.stripeProvider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Stripe not configured"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error reading request body"})
		return
	}

	event, err := h.stripeProvider.ConstructWebhookEvent(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.Errorf("stripe webhook 签名校验失败: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid signature"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			h.logger.Errorf("解析 payment intent 失败: %v", err)
			break
		}
		// 已收款但发码失败时必须回非 2xx，Stripe 才会重试投递
		if _, err := h.paymentService.ConfirmPayment(intent.ID); err != nil {
			h.logger.Errorf("确认支付失败 reference=%s: %v", intent.ID, err)
			if !errors.Is(err, payment.ErrPaymentNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Error confirming payment"})
				return
			}
		}
	case "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			h.logger.Errorf("解析 payment intent 失败: %v", err)
			break
		}
		if err := h.paymentService.FailPayment(intent.ID, "payment_intent.payment_failed"); err != nil {
			h.logger.Errorf("标记支付失败出错 reference=%s: %v", intent.ID, err)
			if !errors.Is(err, payment.ErrPaymentNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Error recording payment failure"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// HandlePaynowWebhook 处理 Paynow 结果回调
func (h *WebhookHandler) HandlePaynowWebhook(c *gin.Context) {
	if h.paynowProvider == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Paynow not configured"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error reading request body"})
		return
	}

	fields, err := h.paynowProvider.ParseResult(string(body))
	if err != nil {
		h.logger.Errorf("paynow 回调校验失败: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}

	reference := fields["reference"]
	switch fields["status"] {
	case payment.PaynowStatusPaid:
		// 已收款但发码失败时必须回非 2xx，Paynow 才会重试投递
		if _, err := h.paymentService.ConfirmPayment(reference); err != nil {
			h.logger.Errorf("确认支付失败 reference=%s: %v", reference, err)
			if !errors.Is(err, payment.ErrPaymentNotFound) {
				c.String(http.StatusInternalServerError, "error")
				return
			}
		}
	case payment.PaynowStatusCancelled, "Failed":
		if err := h.paymentService.FailPayment(reference, fields["status"]); err != nil {
			h.logger.Errorf("标记支付失败出错 reference=%s: %v", reference, err)
			if !errors.Is(err, payment.ErrPaymentNotFound) {
				c.String(http.StatusInternalServerError, "error")
				return
			}
		}
	}

	c.String(http.StatusOK, "ok")
}
