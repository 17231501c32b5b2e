package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Login(t *testing.T) {
	service := NewService("hunter2", "signing-secret")

	// 密码错误不签发凭证
	_, err := service.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	credential, err := service.Login("hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, credential)

	assert.NoError(t, service.Verify(credential))
}

func TestService_Login_NotConfigured(t *testing.T) {
	service := NewService("", "")

	_, err := service.Login("anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestService_Verify_Tampered(t *testing.T) {
	service := NewService("hunter2", "signing-secret")

	credential, err := service.Login("hunter2")
	require.NoError(t, err)

	// 篡改凭证
	assert.ErrorIs(t, service.Verify(credential+"x"), ErrInvalidSession)
	assert.ErrorIs(t, service.Verify("not-a-jwt"), ErrInvalidSession)

	// 换密钥签发的凭证不被接受
	other := NewService("hunter2", "different-secret")
	otherCredential, err := other.Login("hunter2")
	require.NoError(t, err)
	assert.ErrorIs(t, service.Verify(otherCredential), ErrInvalidSession)
}

func TestService_Verify_Expiry(t *testing.T) {
	service := NewService("hunter2", "signing-secret")

	issued := time.Now()
	service.now = func() time.Time { return issued }

	credential, err := service.Login("hunter2")
	require.NoError(t, err)

	// 23h59m：仍然有效
	service.now = func() time.Time { return issued.Add(SessionTTL - time.Minute) }
	assert.NoError(t, service.Verify(credential))

	// 24h 零 1 分钟后过期
	service.now = func() time.Time { return issued.Add(SessionTTL + time.Minute) }
	assert.ErrorIs(t, service.Verify(credential), ErrSessionExpired)
}
