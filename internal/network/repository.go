package network

import (
	"errors"

	"github.com/wifigate/WiFiGate-API/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNetworkNotFound 网络不存在
	ErrNetworkNotFound = errors.New("network not found")
	// ErrNameExists 网络名称已存在
	ErrNameExists = errors.New("network name already exists")
	// ErrSSIDExists SSID 已存在
	ErrSSIDExists = errors.New("network ssid already exists")
)

// Repository 网络配置数据访问层
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create 创建网络
func (r *Repository) Create(network *models.Network) error {
	return r.db.Select("ID", "Name", "SSID", "TokenPrice", "TokenDuration", "IsActive").
		Create(network).Error
}

// FindByID 根据 ID 查找网络
func (r *Repository) FindByID(id string) (*models.Network, error) {
	var network models.Network
	err := r.db.Where("id = ?", id).First(&network).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNetworkNotFound
		}
		return nil, err
	}
	return &network, nil
}

// FindAll 查找所有网络
func (r *Repository) FindAll() ([]*models.Network, error) {
	var networks []*models.Network
	err := r.db.Order("created_at ASC").Find(&networks).Error
	if err != nil {
		return nil, err
	}
	return networks, nil
}

// FindActive 查找启用中的网络
func (r *Repository) FindActive() ([]*models.Network, error) {
	var networks []*models.Network
	err := r.db.Where("is_active = ?", true).Order("created_at ASC").Find(&networks).Error
	if err != nil {
		return nil, err
	}
	return networks, nil
}

// Update 更新网络字段
func (r *Repository) Update(id string, updates map[string]interface{}) error {
	result := r.db.Model(&models.Network{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNetworkNotFound
	}
	return nil
}

// Delete 删除网络
// 不级联删除已签发的 Token：Token 保留签发时的价格/时长快照
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&models.Network{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNetworkNotFound
	}
	return nil
}

// CheckNameExists 检查名称是否已被其他网络占用
func (r *Repository) CheckNameExists(name, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.Network{}).Where("name = ?", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckSSIDExists 检查 SSID 是否已被其他网络占用
func (r *Repository) CheckSSIDExists(ssid, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.Network{}).Where("ssid = ?", ssid)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
