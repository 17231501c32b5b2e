package settings

import (
	"errors"
	"time"

	"github.com/wifigate/WiFiGate-API/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 全局配置数据访问层
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建 Repository 实例
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get 读取配置值，键不存在时返回空串
func (r *Repository) Get(key string) (string, error) {
	var setting models.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

// Set 写入配置值，按键 upsert，最后写入生效
func (r *Repository) Set(key, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// GetAll 读取全部配置
func (r *Repository) GetAll() ([]models.Setting, error) {
	var list []models.Setting
	if err := r.db.Order("key ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
