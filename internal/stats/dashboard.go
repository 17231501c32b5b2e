package stats

import (
	"fmt"
	"time"

	"github.com/wifigate/WiFiGate-API/internal/models"
	"gorm.io/gorm"
)

// TokenStats 仪表盘 Token 统计
type TokenStats struct {
	Total       int64  `json:"total"`
	Active      int64  `json:"active"`
	Used        int64  `json:"used"`
	Revoked     int64  `json:"revoked"`
	SmsFailures int64  `json:"sms_failures"`
	Revenue     string `json:"revenue"`
}

// Dashboard 仪表盘聚合查询
type Dashboard struct {
	db *gorm.DB
}

// NewDashboard 创建 Dashboard 实例
func NewDashboard(db *gorm.DB) *Dashboard {
	return &Dashboard{db: db}
}

// TokenStats 统计 Token 总量、活跃数、已用数、吊销数、短信失败数与营收
func (d *Dashboard) TokenStats() (*TokenStats, error) {
	result := &TokenStats{}
	now := time.Now()

	if err := d.db.Model(&models.Token{}).Count(&result.Total).Error; err != nil {
		return nil, err
	}

	err := d.db.Model(&models.Token{}).
		Where("is_revoked = ? AND expires_at > ?", false, now).
		Count(&result.Active).Error
	if err != nil {
		return nil, err
	}

	err = d.db.Model(&models.Token{}).Where("used_at IS NOT NULL").Count(&result.Used).Error
	if err != nil {
		return nil, err
	}

	err = d.db.Model(&models.Token{}).Where("is_revoked = ?", true).Count(&result.Revoked).Error
	if err != nil {
		return nil, err
	}

	err = d.db.Model(&models.Token{}).Where("sms_delivered = ? AND sms_error <> ''", false).
		Count(&result.SmsFailures).Error
	if err != nil {
		return nil, err
	}

	// 金额按 decimal 文本存储，汇总交给 SQL 完成
	var revenue *float64
	err = d.db.Model(&models.Token{}).
		Select("SUM(CAST(amount AS REAL))").Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	result.Revenue = formatRevenue(revenue)

	return result, nil
}

// formatRevenue 将汇总金额格式化为两位小数字符串
func formatRevenue(revenue *float64) string {
	if revenue == nil {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", *revenue)
}
