package notification

import (
	"context"

	"github.com/marketwatch-ai/alert-engine/internal/service/alert"
)

type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

// Message 渲染前的通知载荷, 渠道各自套用自己的模板
type Message struct {
	To      string
	Event   alert.TriggerEvent
	Summary string
}

type ChannelSender interface {
	Send(ctx context.Context, msg Message) error
}

// Summarizer 可插拔的 AI 摘要生成器, 失败或缺席不阻塞分发
type Summarizer interface {
	Summarize(ctx context.Context, event alert.TriggerEvent) (string, error)
}
