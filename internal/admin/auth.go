package admin

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL 管理会话有效期
const SessionTTL = 24 * time.Hour

var (
	// ErrInvalidPassword 管理密码错误
	ErrInvalidPassword = errors.New("invalid admin password")
	// ErrInvalidSession 会话凭证无效
	ErrInvalidSession = errors.New("invalid session credential")
	// ErrSessionExpired 会话凭证已过期
	ErrSessionExpired = errors.New("session credential expired")
	// ErrNotConfigured 未配置管理密码或签名密钥
	ErrNotConfigured = errors.New("admin auth not configured")
)

// Service 管理端会话服务
// 单一共享密码换取签名的 24 小时会话凭证，无角色体系
type Service struct {
	password string
	secret   []byte
	now      func() time.Time
}

// NewService 创建 Service 实例
func NewService(password, secret string) *Service {
	return &Service{password: password, secret: []byte(secret), now: time.Now}
}

// Login 校验管理密码并签发会话凭证
func (s *Service) Login(password string) (string, error) {
	if s.password == "" || len(s.secret) == 0 {
		return "", ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return "", ErrInvalidPassword
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	}

	credential := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := credential.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify 校验会话凭证的签名与有效期
func (s *Service) Verify(credential string) error {
	if s.password == "" || len(s.secret) == 0 {
		return ErrNotConfigured
	}

	parsed, err := jwt.ParseWithClaims(credential, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidSession
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrSessionExpired
		}
		return ErrInvalidSession
	}
	if !parsed.Valid {
		return ErrInvalidSession
	}
	return nil
}
