package network

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/wifigate/WiFiGate-API/internal/events"
	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/models"
)

var (
	// ErrInvalidDuration 时长必须是正整数小时
	ErrInvalidDuration = errors.New("token duration must be a positive number of hours")
)

// Service 网络配置业务逻辑层
type Service struct {
	repo         *Repository
	eventService *events.Service
	logger       *logger.Logger
}

// NewService 创建 Service 实例
func NewService(repo *Repository, eventService *events.Service, log *logger.Logger) *Service {
	return &Service{repo: repo, eventService: eventService, logger: log}
}

// ParseDurationHours 解析文本形式的时长（小时）
func ParseDurationHours(text string) (int, error) {
	hours, err := strconv.Atoi(text)
	if err != nil || hours <= 0 {
		return 0, ErrInvalidDuration
	}
	return hours, nil
}

// CreateNetwork 创建网络
// name 与 ssid 均要求全局唯一
func (s *Service) CreateNetwork(req CreateNetworkRequest) (*models.Network, error) {
	if _, err := ParseDurationHours(req.TokenDuration); err != nil {
		return nil, err
	}

	nameExists, err := s.repo.CheckNameExists(req.Name, "")
	if err != nil {
		return nil, err
	}
	if nameExists {
		return nil, ErrNameExists
	}

	ssidExists, err := s.repo.CheckSSIDExists(req.SSID, "")
	if err != nil {
		return nil, err
	}
	if ssidExists {
		return nil, ErrSSIDExists
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	network := &models.Network{
		ID:            uuid.NewString(),
		Name:          req.Name,
		SSID:          req.SSID,
		TokenPrice:    req.TokenPrice,
		TokenDuration: req.TokenDuration,
		IsActive:      isActive,
	}

	if err := s.repo.Create(network); err != nil {
		return nil, err
	}

	s.logChange("Network created: " + network.Name)
	return network, nil
}

// GetNetwork 根据 ID 获取网络
func (s *Service) GetNetwork(id string) (*models.Network, error) {
	return s.repo.FindByID(id)
}

// ListNetworks 获取所有网络
func (s *Service) ListNetworks() ([]*models.Network, error) {
	return s.repo.FindAll()
}

// ListActiveNetworks 获取启用中的网络，供公开购买页使用
func (s *Service) ListActiveNetworks() ([]*models.Network, error) {
	return s.repo.FindActive()
}

// UpdateNetwork 更新网络
// 编辑不影响已签发 Token 上记录的价格/时长快照
func (s *Service) UpdateNetwork(id string, req UpdateNetworkRequest) (*models.Network, error) {
	if _, err := s.repo.FindByID(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Name != nil {
		exists, err := s.repo.CheckNameExists(*req.Name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrNameExists
		}
		updates["name"] = *req.Name
	}

	if req.SSID != nil {
		exists, err := s.repo.CheckSSIDExists(*req.SSID, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrSSIDExists
		}
		updates["ssid"] = *req.SSID
	}

	if req.TokenPrice != nil {
		updates["token_price"] = *req.TokenPrice
	}

	if req.TokenDuration != nil {
		if _, err := ParseDurationHours(*req.TokenDuration); err != nil {
			return nil, err
		}
		updates["token_duration"] = *req.TokenDuration
	}

	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(id, updates); err != nil {
			return nil, err
		}
	}

	network, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	s.logChange("Network updated: " + network.Name)
	return network, nil
}

// DeleteNetwork 删除网络
// 已签发的 Token 不受影响
func (s *Service) DeleteNetwork(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logChange("Network deleted: " + id)
	return nil
}

// logChange 记录网络配置变更事件
func (s *Service) logChange(message string) {
	if err := s.eventService.LogInfo(models.EventTypeNetworkChange, message, nil); err != nil {
		s.logger.Errorf("记录事件失败: %v", err)
	}
}
