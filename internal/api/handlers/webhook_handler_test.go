package handlers

import (
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wifigate/WiFiGate-API/internal/config"
	"github.com/wifigate/WiFiGate-API/internal/events"
	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/models"
	"github.com/wifigate/WiFiGate-API/internal/network"
	"github.com/wifigate/WiFiGate-API/internal/payment"
	"github.com/wifigate/WiFiGate-API/internal/settings"
	"github.com/wifigate/WiFiGate-API/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const paynowTestKey = "test-integration-key"

type webhookEnv struct {
	router         *gin.Engine
	db             *gorm.DB
	paymentService *payment.Service
	paymentRepo    *payment.Repository
	tokenRepo      *token.Repository
}

func setupWebhookEnv(t *testing.T) *webhookEnv {
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := database.AutoMigrate(
		&models.Token{}, &models.Network{}, &models.Setting{},
		&models.Payment{}, &models.SystemEvent{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	log := logger.NewNop()
	eventService := events.NewService(database)
	tokenRepo := token.NewRepository(database)
	tokenService := token.NewService(tokenRepo, stubSender{}, eventService, log)
	networkService := network.NewService(network.NewRepository(database), eventService, log)
	settingsService := settings.NewService(settings.NewRepository(database), eventService, log)
	paymentRepo := payment.NewRepository(database)
	paymentService := payment.NewService(paymentRepo,
		[]payment.Provider{stubProvider{}},
		tokenService, networkService, settingsService, eventService, log)

	paynowProvider := payment.NewPaynowProvider(config.PaynowConfig{
		IntegrationID:  "1201",
		IntegrationKey: paynowTestKey,
	}, false)

	handler := NewWebhookHandler(paymentService, nil, paynowProvider, log)
	router := gin.New()
	router.POST("/api/payment/webhook", handler.HandlePaynowWebhook)

	return &webhookEnv{
		router:         router,
		db:             database,
		paymentService: paymentService,
		paymentRepo:    paymentRepo,
		tokenRepo:      tokenRepo,
	}
}

// paynowResultBody 按 Paynow 回调格式构造带散列的表单体
func paynowResultBody(key, reference, status string) string {
	values := []string{reference, status}
	names := []string{"reference", "status"}

	var concat strings.Builder
	var form strings.Builder
	for i, v := range values {
		concat.WriteString(v)
		if i > 0 {
			form.WriteByte('&')
		}
		form.WriteString(names[i])
		form.WriteByte('=')
		form.WriteString(url.QueryEscape(v))
	}
	sum := sha512.Sum512([]byte(concat.String() + key))
	form.WriteString("&hash=")
	form.WriteString(url.QueryEscape(strings.ToUpper(hex.EncodeToString(sum[:]))))
	return form.String()
}

func postPaynowResult(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createPendingPayment(t *testing.T, env *webhookEnv) string {
	checkout, err := env.paymentService.CreateCheckout(payment.CheckoutRequest{
		PhoneNumber: "+263771234567",
		Amount:      "5.00",
		Method:      models.PaymentMethodPaynow,
	})
	require.NoError(t, err)
	return checkout.Reference
}

func TestPaynowWebhook_Paid(t *testing.T) {
	env := setupWebhookEnv(t)
	reference := createPendingPayment(t, env)

	w := postPaynowResult(env.router, paynowResultBody(paynowTestKey, reference, payment.PaynowStatusPaid))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	stored, err := env.paymentRepo.FindByReference(reference)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.Status)
	assert.NotEmpty(t, stored.TokenID)

	tokens, err := env.tokenRepo.FindAll()
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
}

func TestPaynowWebhook_IssuanceFailureIsNotAcked(t *testing.T) {
	env := setupWebhookEnv(t)
	reference := createPendingPayment(t, env)

	// 发码路径不可用时，已收款的回调必须回非 2xx 让渠道重试
	require.NoError(t, env.db.Migrator().DropTable(&models.Token{}))

	w := postPaynowResult(env.router, paynowResultBody(paynowTestKey, reference, payment.PaynowStatusPaid))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	stored, err := env.paymentRepo.FindByReference(reference)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
	assert.Empty(t, stored.TokenID)
}

func TestPaynowWebhook_Cancelled(t *testing.T) {
	env := setupWebhookEnv(t)
	reference := createPendingPayment(t, env)

	w := postPaynowResult(env.router, paynowResultBody(paynowTestKey, reference, payment.PaynowStatusCancelled))
	assert.Equal(t, http.StatusOK, w.Code)

	stored, err := env.paymentRepo.FindByReference(reference)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, stored.Status)

	tokens, err := env.tokenRepo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestPaynowWebhook_BadHash(t *testing.T) {
	env := setupWebhookEnv(t)
	reference := createPendingPayment(t, env)

	w := postPaynowResult(env.router, paynowResultBody("wrong-key", reference, payment.PaynowStatusPaid))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, err := env.paymentRepo.FindByReference(reference)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestPaynowWebhook_UnknownReferenceIsAcked(t *testing.T) {
	env := setupWebhookEnv(t)

	// 与本系统无关的引用只记录日志，不触发渠道重试
	w := postPaynowResult(env.router, paynowResultBody(paynowTestKey, "no-such-reference", payment.PaynowStatusPaid))
	assert.Equal(t, http.StatusOK, w.Code)
}
