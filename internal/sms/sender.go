package sms

import (
	"fmt"

	"github.com/wifigate/WiFiGate-API/internal/logger"
)

// Sender 短信发送接口
// 具体实现：Twilio 网关，或未配置凭证时的演示发送器
type Sender interface {
	Send(to, body string) error
}

// LogSender 演示模式发送器
// 未配置短信网关时只记录日志，视为发送成功
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender 创建 LogSender 实例
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

// Send 记录本应发送的短信内容
func (s *LogSender) Send(to, body string) error {
	s.logger.Infof("[DEMO MODE] Would send SMS to %s: %s", to, body)
	return nil
}

// FormatTokenMessage 生成访问码下发短信内容
func FormatTokenMessage(code string, durationHours int) string {
	return fmt.Sprintf("Your Wi-Fi access token is: %s. Valid for %d hours. Enter this on the Wi-Fi portal to connect.",
		code, durationHours)
}

// FormatExpiredMessage 生成过期提醒短信内容
func FormatExpiredMessage(code string) string {
	return fmt.Sprintf("Your Wi-Fi access token %s has expired. Purchase a new token to reconnect.", code)
}
