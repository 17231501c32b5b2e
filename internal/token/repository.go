package token

import (
	"errors"
	"time"

	"github.com/wifigate/WiFiGate-API/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrTokenNotFound Token 不存在
	ErrTokenNotFound = errors.New("token not found")
	// ErrCodeExists 访问码已存在
	ErrCodeExists = errors.New("token code already exists")
)

// Repository Token 数据访问层
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 创建 Token
func (r *Repository) Create(token *models.Token) error {
	// 使用 Select 明确指定要保存的字段，包括零值字段
	err := r.db.Select("ID", "Code", "PhoneNumber", "Amount", "PaymentMethod",
		"PaymentReference", "ExpiresAt", "UsedAt", "IsRevoked", "SmsDelivered", "SmsError").
		Create(token).Error
	if err != nil {
		// 唯一索引冲突按显式错误暴露，由调用方换新码重试
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCodeExists
		}
		return err
	}
	return nil
}

// FindByID 根据 ID 查找 Token
func (r *Repository) FindByID(id string) (*models.Token, error) {
	var token models.Token
	err := r.db.Where("id = ?", id).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// FindByCode 根据访问码查找 Token
func (r *Repository) FindByCode(code string) (*models.Token, error) {
	var token models.Token
	err := r.db.Where("code = ?", code).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// FindByPaymentReference 根据支付引用查找 Token
func (r *Repository) FindByPaymentReference(reference string) (*models.Token, error) {
	var token models.Token
	err := r.db.Where("payment_reference = ?", reference).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// FindAll 查找所有 Token
func (r *Repository) FindAll() ([]*models.Token, error) {
	var tokens []*models.Token
	err := r.db.Order("created_at DESC").Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// FindActive 查找未吊销且未过期的 Token
func (r *Repository) FindActive(now time.Time) ([]*models.Token, error) {
	var tokens []*models.Token
	err := r.db.Where("is_revoked = ? AND expires_at > ?", false, now).
		Order("created_at DESC").Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// FindExpired 查找未吊销但已过期的 Token
func (r *Repository) FindExpired(now time.Time) ([]*models.Token, error) {
	var tokens []*models.Token
	err := r.db.Where("is_revoked = ? AND expires_at < ?", false, now).
		Order("created_at DESC").Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// MarkUsed 标记首次使用时间
// 条件更新 used_at IS NULL，保证并发下最多写入一次
func (r *Repository) MarkUsed(id string, usedAt time.Time) error {
	return r.db.Model(&models.Token{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", usedAt).Error
}

// Revoke 吊销 Token（单向，不可恢复）
func (r *Repository) Revoke(id string) error {
	result := r.db.Model(&models.Token{}).Where("id = ?", id).Update("is_revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// UpdateSmsStatus 更新短信发送结果
func (r *Repository) UpdateSmsStatus(id string, delivered bool, smsError string) error {
	return r.db.Model(&models.Token{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"sms_delivered": delivered,
			"sms_error":     smsError,
		}).Error
}

// CheckCodeExists 检查访问码是否已存在
func (r *Repository) CheckCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Token{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
