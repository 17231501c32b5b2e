package settings

import (
	"strconv"

	"github.com/wifigate/WiFiGate-API/internal/events"
	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/models"
)

// DefaultTokenDurationHours 未配置网络与默认时长时的兜底值
const DefaultTokenDurationHours = 12

// Service 全局配置业务逻辑层
type Service struct {
	repo         *Repository
	eventService *events.Service
	logger       *logger.Logger
}

// NewService 创建 Service 实例
func NewService(repo *Repository, eventService *events.Service, log *logger.Logger) *Service {
	return &Service{repo: repo, eventService: eventService, logger: log}
}

// Get 读取单个配置值
func (s *Service) Get(key string) (string, error) {
	return s.repo.Get(key)
}

// GetAll 读取全部配置，返回键值映射
func (s *Service) GetAll() (map[string]string, error) {
	list, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(list))
	for _, setting := range list {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

// SetAll 批量写入配置
func (s *Service) SetAll(values map[string]string) error {
	for key, value := range values {
		if err := s.repo.Set(key, value); err != nil {
			return err
		}
	}

	if err := s.eventService.LogInfo(models.EventTypeSettingsChange,
		"Settings updated", nil); err != nil {
		s.logger.Errorf("记录事件失败: %v", err)
	}
	return nil
}

// DefaultDurationHours 读取默认 Token 时长（小时）
// 配置缺失或非法时回退到 12 小时
func (s *Service) DefaultDurationHours() int {
	value, err := s.repo.Get(models.SettingDefaultTokenDuration)
	if err != nil || value == "" {
		return DefaultTokenDurationHours
	}
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		return DefaultTokenDurationHours
	}
	return hours
}

// DefaultPrice 读取默认 Token 售价，缺失时返回 "0"
func (s *Service) DefaultPrice() string {
	value, err := s.repo.Get(models.SettingDefaultTokenPrice)
	if err != nil || value == "" {
		return "0"
	}
	return value
}
