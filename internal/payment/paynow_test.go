package payment

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wifigate/WiFiGate-API/internal/config"
	"github.com/wifigate/WiFiGate-API/internal/models"
)

func newTestPaynow(mobile bool) *PaynowProvider {
	return NewPaynowProvider(config.PaynowConfig{
		IntegrationID:  "1201",
		IntegrationKey: "test-integration-key",
		ResultURL:      "https://example.com/api/payment/webhook",
		ReturnURL:      "https://example.com/portal",
	}, mobile)
}

// buildResultBody 按 Paynow 回调格式构造带散列的表单体
func buildResultBody(key string, fields []field) string {
	var concat strings.Builder
	var form strings.Builder
	for i, f := range fields {
		concat.WriteString(f.value)
		if i > 0 {
			form.WriteByte('&')
		}
		form.WriteString(f.name)
		form.WriteByte('=')
		form.WriteString(url.QueryEscape(f.value))
	}
	form.WriteString("&hash=")
	form.WriteString(url.QueryEscape(hashFields(concat.String(), key)))
	return form.String()
}

func TestPaynow_ParseResult(t *testing.T) {
	provider := newTestPaynow(false)

	body := buildResultBody("test-integration-key", []field{
		{"reference", "ref-42"},
		{"paynowreference", "18223"},
		{"amount", "5.00"},
		{"status", "Paid"},
		{"pollurl", "https://www.paynow.co.zw/interface/poll/?guid=x"},
	})

	fields, err := provider.ParseResult(body)
	require.NoError(t, err)
	assert.Equal(t, "ref-42", fields["reference"])
	assert.Equal(t, "Paid", fields["status"])
	assert.Equal(t, "5.00", fields["amount"])
}

func TestPaynow_ParseResult_BadHash(t *testing.T) {
	provider := newTestPaynow(false)

	// 散列由另一把密钥计算
	body := buildResultBody("wrong-key", []field{
		{"reference", "ref-42"},
		{"status", "Paid"},
	})
	_, err := provider.ParseResult(body)
	assert.ErrorIs(t, err, ErrPaynowBadHash)

	// 缺失散列
	_, err = provider.ParseResult("reference=ref-42&status=Paid")
	assert.ErrorIs(t, err, ErrPaynowBadHash)
}

func TestPaynow_ParseResult_TamperedField(t *testing.T) {
	provider := newTestPaynow(false)

	body := buildResultBody("test-integration-key", []field{
		{"reference", "ref-42"},
		{"status", "Awaiting Delivery"},
	})
	tampered := strings.Replace(body, "Awaiting+Delivery", "Paid", 1)

	_, err := provider.ParseResult(tampered)
	assert.ErrorIs(t, err, ErrPaynowBadHash)
}

func TestPaynow_CreatePayment(t *testing.T) {
	var received url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		received, _ = url.ParseQuery(string(raw))
		w.Write([]byte("status=Ok&browserurl=" + url.QueryEscape("https://www.paynow.co.zw/payment/xyz") +
			"&pollurl=" + url.QueryEscape("https://www.paynow.co.zw/interface/poll/?guid=xyz")))
	}))
	defer server.Close()

	provider := newTestPaynow(false)
	provider.initiate = server.URL

	payment := &models.Payment{
		Reference:   "ref-42",
		PhoneNumber: "+263771234567",
		Amount:      "5.00",
	}
	checkout, err := provider.CreatePayment(payment)
	require.NoError(t, err)

	assert.Equal(t, "ref-42", checkout.Reference)
	assert.Equal(t, "https://www.paynow.co.zw/payment/xyz", checkout.RedirectURL)
	assert.Equal(t, "https://www.paynow.co.zw/interface/poll/?guid=xyz", checkout.PollURL)

	// 请求携带引用、金额与散列
	assert.Equal(t, "ref-42", received.Get("reference"))
	assert.Equal(t, "5.00", received.Get("amount"))
	assert.Equal(t, "1201", received.Get("id"))
	assert.NotEmpty(t, received.Get("hash"))
}

func TestPaynow_CreatePayment_MobileAddsPhone(t *testing.T) {
	var received url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		received, _ = url.ParseQuery(string(raw))
		w.Write([]byte("status=Ok&pollurl=" + url.QueryEscape("https://www.paynow.co.zw/interface/poll/?guid=m")))
	}))
	defer server.Close()

	provider := newTestPaynow(true)
	provider.remote = server.URL

	_, err := provider.CreatePayment(&models.Payment{
		Reference:   "ref-43",
		PhoneNumber: "+263771234567",
		Amount:      "2.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "+263771234567", received.Get("phone"))
	assert.Equal(t, "ecocash", received.Get("method"))
	assert.Equal(t, models.PaymentMethodMobileMoney, provider.Method())
}

func TestPaynow_CreatePayment_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("status=Error&error=" + url.QueryEscape("Invalid integration id")))
	}))
	defer server.Close()

	provider := newTestPaynow(false)
	provider.initiate = server.URL

	_, err := provider.CreatePayment(&models.Payment{Reference: "ref-44", Amount: "5.00"})
	assert.ErrorIs(t, err, ErrPaynowBadResponse)
}

func TestPaynow_CreatePayment_NotConfigured(t *testing.T) {
	provider := NewPaynowProvider(config.PaynowConfig{}, false)

	_, err := provider.CreatePayment(&models.Payment{Reference: "ref-45", Amount: "5.00"})
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}
