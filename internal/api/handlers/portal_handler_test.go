package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// stubSender 测试用短信发送器
type stubSender struct{}

func (stubSender) Send(to, body string) error { return nil }

// stubProvider 测试用支付渠道
type stubProvider struct{}

func (stubProvider) Method() string { return models.PaymentMethodPaynow }

func (stubProvider) CreatePayment(p *models.Payment) (*payment.Checkout, error) {
	return &payment.Checkout{
		Reference:   p.Reference,
		RedirectURL: "https://pay.example.com/" + p.Reference,
	}, nil
}

type portalEnv struct {
	router       *gin.Engine
	db           *gorm.DB
	tokenService *token.Service
	tokenRepo    *token.Repository
}

func setupPortalEnv(t *testing.T) *portalEnv {
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
	paymentService := payment.NewService(payment.NewRepository(database),
		[]payment.Provider{stubProvider{}},
		tokenService, networkService, settingsService, eventService, log)

	handler := NewPortalHandler(paymentService, tokenService)
	router := gin.New()
	router.POST("/api/purchase-token", handler.PurchaseToken)
	router.POST("/api/validate-token", handler.ValidateToken)

	return &portalEnv{router: router, db: database, tokenService: tokenService, tokenRepo: tokenRepo}
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func issueTestToken(t *testing.T, env *portalEnv) *models.Token {
	tok, err := env.tokenService.IssueToken(token.IssueRequest{
		PhoneNumber:      "+263771234567",
		Amount:           "5.00",
		DurationHours:    12,
		PaymentMethod:    models.PaymentMethodManual,
		PaymentReference: models.PaymentReferenceManual,
	})
	require.NoError(t, err)
	return tok
}

func TestPortal_ValidateToken_Missing(t *testing.T) {
	env := setupPortalEnv(t)

	w := postJSON(env.router, "/api/validate-token", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Token is required", decodeBody(t, w)["message"])
}

func TestPortal_ValidateToken_Unknown(t *testing.T) {
	env := setupPortalEnv(t)

	w := postJSON(env.router, "/api/validate-token", gin.H{"token": "ZZZZ9999"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "Invalid token", body["message"])
}

func TestPortal_ValidateToken_Granted(t *testing.T) {
	env := setupPortalEnv(t)
	tok := issueTestToken(t, env)

	w := postJSON(env.router, "/api/validate-token", gin.H{"token": tok.Code})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "Access granted", body["message"])
	assert.NotEmpty(t, body["expiresAt"])

	// 首次兑换记录使用时间
	stored, err := env.tokenRepo.FindByID(tok.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.UsedAt)
}

func TestPortal_ValidateToken_Revoked(t *testing.T) {
	env := setupPortalEnv(t)
	tok := issueTestToken(t, env)
	require.NoError(t, env.tokenService.RevokeToken(tok.ID))

	w := postJSON(env.router, "/api/validate-token", gin.H{"token": tok.Code})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Token has been revoked", decodeBody(t, w)["message"])
}

func TestPortal_ValidateToken_Expired(t *testing.T) {
	env := setupPortalEnv(t)
	tok := issueTestToken(t, env)

	// 把过期时间拨到过去
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, env.db.Model(&models.Token{}).
		Where("id = ?", tok.ID).Update("expires_at", expired).Error)

	w := postJSON(env.router, "/api/validate-token", gin.H{"token": tok.Code})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Token has expired", decodeBody(t, w)["message"])
}

func TestPortal_PurchaseToken(t *testing.T) {
	env := setupPortalEnv(t)

	w := postJSON(env.router, "/api/purchase-token", gin.H{
		"phoneNumber":   "+263771234567",
		"amount":        "5.00",
		"paymentMethod": models.PaymentMethodPaynow,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["reference"])
	assert.NotEmpty(t, body["paymentUrl"])
}

func TestPortal_PurchaseToken_MissingFields(t *testing.T) {
	env := setupPortalEnv(t)

	w := postJSON(env.router, "/api/purchase-token", gin.H{"phoneNumber": "+263771234567"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}

func TestPortal_PurchaseToken_UnknownNetwork(t *testing.T) {
	env := setupPortalEnv(t)

	w := postJSON(env.router, "/api/purchase-token", gin.H{
		"phoneNumber":   "+263771234567",
		"networkId":     "no-such-network",
		"paymentMethod": models.PaymentMethodPaynow,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Network not found", decodeBody(t, w)["message"])
}

func TestPortal_PurchaseToken_UnsupportedMethod(t *testing.T) {
	env := setupPortalEnv(t)

	w := postJSON(env.router, "/api/purchase-token", gin.H{
		"phoneNumber":   "+263771234567",
		"amount":        "5.00",
		"paymentMethod": models.PaymentMethodStripe,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
