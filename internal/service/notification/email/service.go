package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/marketwatch-ai/alert-engine/internal/service/notification"
)

var _ notification.ChannelSender = (*Service)(nil)

// Service SMTP 兜底渠道, 只在用户没有可达聊天渠道时使用
type Service struct {
	senderAddress  string
	senderPassword string
	host           string
	port           int
}

func NewService(senderAddress, senderPassword, host string, port int) *Service {
	return &Service{
		senderAddress:  senderAddress,
		senderPassword: senderPassword,
		host:           host,
		port:           port,
	}
}

func (s *Service) Send(ctx context.Context, msg notification.Message) error {
	ev := msg.Event
	subject := fmt.Sprintf("MarketWatch Alert: %s %s", ev.Symbol, strings.ToUpper(string(ev.Kind)))
	body := fmt.Sprintf(
		"Alert Triggered: %s %s\r\nPrice: %s  Target: %s\r\n%s\r\n\r\n%s\r\n",
		ev.Symbol, strings.ToUpper(string(ev.Kind)),
		ev.Price.StringFixed(5), ev.ConfiguredLevel(), ev.Reason, msg.Summary,
	)

	headers := []string{
		fmt.Sprintf("From: %s", s.senderAddress),
		fmt.Sprintf("To: %s", msg.To),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
	}
	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	// net/smtp 不接收 context, 交给上层的重试预算约束
	auth := smtp.PlainAuth("", s.senderAddress, s.senderPassword, s.host)
	return smtp.SendMail(
		fmt.Sprintf("%s:%d", s.host, s.port),
		auth,
		s.senderAddress,
		[]string{msg.To},
		[]byte(raw),
	)
}
