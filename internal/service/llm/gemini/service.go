package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/marketwatch-ai/alert-engine/internal/service/llm"
)

const defaultModel = "gemini-2.0-flash"

var _ llm.Service = (*Service)(nil)

type Service struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

type Option func(svc *Service)

func WithModel(name string) Option {
	return func(svc *Service) {
		svc.model = svc.client.GenerativeModel(name)
	}
}

func WithTemperature(temp float32) Option {
	return func(svc *Service) {
		svc.model.SetTemperature(temp)
	}
}

func NewService(client *genai.Client, opts ...Option) *Service {
	svc := &Service{
		client: client,
		model:  client.GenerativeModel(defaultModel),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service) AskOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return flatten(resp), nil
}

// flatten 只取第一个候选的文本段
func flatten(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(string(text))
		}
	}
	return b.String()
}
