package notify

import (
	"time"

	"github.com/wifigate/WiFiGate-API/internal/logger"
	"github.com/wifigate/WiFiGate-API/internal/sms"
	"github.com/wifigate/WiFiGate-API/internal/token"
)

// Service 过期提醒批处理
// 触发来自外部（管理端点或定时器），核心不自带调度
type Service struct {
	tokenRepo *token.Repository
	sender    sms.Sender
	logger    *logger.Logger
}

// NewService 创建 Service 实例
func NewService(tokenRepo *token.Repository, sender sms.Sender, log *logger.Logger) *Service {
	return &Service{tokenRepo: tokenRepo, sender: sender, logger: log}
}

// NotifyExpired 向所有未吊销且已过期的 Token 持有者发送过期提醒
// 尽力而为：单个收件人失败只记日志，不中断批处理。返回尝试发送的数量
func (s *Service) NotifyExpired() (int, error) {
	expired, err := s.tokenRepo.FindExpired(time.Now())
	if err != nil {
		return 0, err
	}

	attempted := 0
	for _, tok := range expired {
		attempted++
		body := sms.FormatExpiredMessage(tok.Code)
		if err := s.sender.Send(tok.PhoneNumber, body); err != nil {
			s.logger.Errorf("过期提醒发送失败 phone=%s: %v", tok.PhoneNumber, err)
		}
	}

	return attempted, nil
}
