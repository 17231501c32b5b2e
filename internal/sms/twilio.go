package sms

import (
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/wifigate/WiFiGate-API/internal/config"
)

// TwilioSender 基于 Twilio 的短信发送器
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender 创建 TwilioSender 实例
func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, from: cfg.PhoneNumber}
}

// Send 通过 Twilio 发送短信
func (s *TwilioSender) Send(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio 发送失败: %w", err)
	}
	return nil
}
