package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wifigate/WiFiGate-API/internal/admin"
)

const (
	testPassword = "admin-secret"
	testSecret   = "session-signing-key"
)

func setupTestRouter() (*gin.Engine, *admin.Service) {
	gin.SetMode(gin.TestMode)
	adminService := admin.NewService(testPassword, testSecret)

	router := gin.New()
	router.GET("/protected", AdminAuthMiddleware(adminService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router, adminService
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAdminAuthMiddleware_MissingHeader(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_AUTH_HEADER", errorCode(t, w))
}

func TestAdminAuthMiddleware_BadFormat(t *testing.T) {
	router, adminService := setupTestRouter()
	credential, err := adminService.Login(testPassword)
	require.NoError(t, err)

	for _, header := range []string{
		"Basic " + credential,
		credential,
		"Bearer ",
	} {
		w := doRequest(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_AUTH_FORMAT", errorCode(t, w))
	}
}

func TestAdminAuthMiddleware_InvalidCredential(t *testing.T) {
	router, _ := setupTestRouter()

	w := doRequest(router, "Bearer not-a-valid-credential")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_SESSION", errorCode(t, w))
}

func TestAdminAuthMiddleware_ExpiredCredential(t *testing.T) {
	router, _ := setupTestRouter()

	// 用同一密钥签一张已过期的凭证
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SESSION_EXPIRED", errorCode(t, w))
}

func TestAdminAuthMiddleware_ValidCredential(t *testing.T) {
	router, adminService := setupTestRouter()
	credential, err := adminService.Login(testPassword)
	require.NoError(t, err)

	w := doRequest(router, "Bearer "+credential)
	assert.Equal(t, http.StatusOK, w.Code)
}
