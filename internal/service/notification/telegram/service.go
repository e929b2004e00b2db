package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/marketwatch-ai/alert-engine/internal/service/notification"
)

const defaultBaseURL = "https://api.telegram.org"

var kindEmoji = map[entity.AlertKind]string{
	entity.KindTouch: "🎯",
	entity.KindCross: "⚡",
	entity.KindNear:  "📍",
	entity.KindZone:  "📦",
}

var _ notification.ChannelSender = (*Service)(nil)

// Service Telegram Bot API 发送器
type Service struct {
	token   string
	baseURL string
	cli     *http.Client
}

type Option func(svc *Service)

func WithBaseURL(baseURL string) Option {
	return func(svc *Service) {
		svc.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

func WithHTTPClient(cli *http.Client) Option {
	return func(svc *Service) {
		svc.cli = cli
	}
}

func NewService(token string, opts ...Option) *Service {
	svc := &Service{
		token:   token,
		baseURL: defaultBaseURL,
		cli:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) Send(ctx context.Context, msg notification.Message) error {
	if err := s.sendMessage(ctx, msg.To, formatAlertMessage(msg), "Markdown"); err == nil {
		return nil
	}
	// Markdown 被拒时退回纯文本再试一次
	return s.sendMessage(ctx, msg.To, plainAlertMessage(msg), "")
}

// SendText 发送一条普通文本消息 (提醒等非预警场景)
func (s *Service) SendText(ctx context.Context, chatId, text string) error {
	return s.sendMessage(ctx, chatId, text, "Markdown")
}

func (s *Service) sendMessage(ctx context.Context, chatId, text, parseMode string) error {
	payload := map[string]any{
		"chat_id": chatId,
		"text":    text,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Ok          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("telegram response decode: %w", err)
	}
	if !result.Ok {
		return fmt.Errorf("telegram send rejected: %s", result.Description)
	}
	return nil
}

func formatAlertMessage(msg notification.Message) string {
	ev := msg.Event
	emoji, ok := kindEmoji[ev.Kind]
	if !ok {
		emoji = "🔔"
	}
	return fmt.Sprintf(
		"%s *MarketWatch Alert Triggered*\n\n"+
			"*Symbol:* `%s`\n"+
			"*Type:* %s\n"+
			"*Current Price:* `%s`\n"+
			"*Target Level:* `%s`\n"+
			"_%s_\n\n"+
			"🤖 *AI Summary:*\n%s",
		emoji, ev.Symbol, strings.ToUpper(string(ev.Kind)),
		ev.Price.StringFixed(5), ev.ConfiguredLevel(), ev.Reason, msg.Summary,
	)
}

func plainAlertMessage(msg notification.Message) string {
	ev := msg.Event
	return fmt.Sprintf(
		"Alert Triggered: %s %s\nPrice: %s  Target: %s\n%s\n\n%s",
		ev.Symbol, strings.ToUpper(string(ev.Kind)),
		ev.Price.StringFixed(5), ev.ConfiguredLevel(), ev.Reason, msg.Summary,
	)
}
