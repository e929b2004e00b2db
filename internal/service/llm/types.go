package llm

import (
	"context"
)

// Service 单轮问答式生成, 预警摘要每次触发只问一句
type Service interface {
	AskOnce(ctx context.Context, prompt string) (string, error)
}
