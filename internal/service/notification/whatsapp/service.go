package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/service/notification"
)

const (
	defaultBaseURL = "https://graph.facebook.com/v19.0"

	// Meta 预审核过的模板, 引擎只负责填参
	templateName = "market_alert"
	templateLang = "en_US"
)

var _ notification.ChannelSender = (*Service)(nil)

// Service WhatsApp Cloud API (Meta Graph) 模板消息发送器
type Service struct {
	accessToken   string
	phoneNumberId string
	baseURL       string
	cli           *http.Client
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

func NewService(accessToken, phoneNumberId string, opts ...Option) *Service {
	svc := &Service{
		accessToken:   accessToken,
		phoneNumberId: phoneNumberId,
		baseURL:       defaultBaseURL,
		cli:           &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type templateParam struct {
	Type          string `json:"type"`
	ParameterName string `json:"parameter_name"`
	Text          string `json:"text"`
}

func (s *Service) Send(ctx context.Context, msg notification.Message) error {
	ev := msg.Event
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.To,
		"type":              "template",
		"template": map[string]any{
			"name":     templateName,
			"language": map[string]any{"code": templateLang},
			"components": []map[string]any{
				{
					"type": "body",
					"parameters": []templateParam{
						{Type: "text", ParameterName: "symbol", Text: ev.Symbol},
						{Type: "text", ParameterName: "alert_type", Text: strings.ToUpper(string(ev.Kind))},
						{Type: "text", ParameterName: "current_price", Text: ev.Price.StringFixed(5)},
						{Type: "text", ParameterName: "target_level", Text: ev.ConfiguredLevel()},
						{Type: "text", ParameterName: "ai_summary", Text: msg.Summary},
					},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberId), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp send failed: status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
