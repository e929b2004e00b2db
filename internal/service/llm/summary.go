package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketwatch-ai/alert-engine/internal/service/alert"
)

// AlertSummarizer 在预警触发时生成一段简短的市场背景摘要.
// 任何失败都由调用方降级为固定话术, 这里只负责问一次.
type AlertSummarizer struct {
	svc Service
}

func NewAlertSummarizer(svc Service) *AlertSummarizer {
	return &AlertSummarizer{
		svc: svc,
	}
}

func (s *AlertSummarizer) Summarize(ctx context.Context, event alert.TriggerEvent) (string, error) {
	prompt := fmt.Sprintf(
		"An alert just triggered: %s is at %s (alert type: %s, target level: %s). "+
			"Give a 2-3 sentence market context for %s right now. "+
			"Keep it under 120 words. Only analysis, never financial advice.",
		event.Symbol, event.Price.StringFixed(5), event.Kind, event.ConfiguredLevel(), event.Symbol,
	)

	answer, err := s.svc.AskOnce(ctx, prompt)
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(answer)
	if content == "" {
		return "", fmt.Errorf("empty summary answer")
	}
	return content, nil
}
