package payment

import (
	"errors"

	"github.com/wifigate/WiFiGate-API/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrPaymentNotFound 支付记录不存在
	ErrPaymentNotFound = errors.New("payment not found")
)

// Repository 支付记录数据访问层
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 创建支付记录
func (r *Repository) Create(payment *models.Payment) error {
	return r.db.Select("ID", "Reference", "PhoneNumber", "NetworkID", "Amount",
		"Method", "Status", "PollURL", "TokenID").Create(payment).Error
}

// FindByReference 根据支付引用查找支付记录
func (r *Repository) FindByReference(reference string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("reference = ?", reference).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// UpdateStatus 更新支付状态
func (r *Repository) UpdateStatus(id, status string) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).
		Update("status", status).Error
}

// AttachToken 绑定已签发的 Token 并标记已支付
func (r *Repository) AttachToken(id, tokenID string) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   models.PaymentStatusPaid,
			"token_id": tokenID,
		}).Error
}
