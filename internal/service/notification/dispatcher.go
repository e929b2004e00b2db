package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/marketwatch-ai/alert-engine/internal/metrics"
	"github.com/marketwatch-ai/alert-engine/internal/repo"
	"github.com/marketwatch-ai/alert-engine/internal/service/alert"
)

const (
	defaultMaxAttempts = 3
	defaultBackoff     = 2 * time.Second
	summaryTimeout     = 15 * time.Second
)

// Dispatcher 把触发事件分发到订阅档位允许的渠道.
// 每个渠道独立重试, 一个渠道失败不影响其它渠道, 也绝不回滚触发状态.
type Dispatcher struct {
	profiles    repo.ProfileRepo
	deliveries  repo.DeliveryRepo
	senders     map[Channel]ChannelSender
	summarizer  Summarizer
	maxAttempts int
	backoff     time.Duration
}

type Option func(d *Dispatcher)

func WithSummarizer(summarizer Summarizer) Option {
	return func(d *Dispatcher) {
		d.summarizer = summarizer
	}
}

func WithMaxAttempts(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

func WithBackoff(backoff time.Duration) Option {
	return func(d *Dispatcher) {
		d.backoff = backoff
	}
}

func NewDispatcher(profiles repo.ProfileRepo, deliveries repo.DeliveryRepo,
	senders map[Channel]ChannelSender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		profiles:    profiles,
		deliveries:  deliveries,
		senders:     senders,
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ alert.Dispatcher = (*Dispatcher)(nil)

type target struct {
	channel Channel
	to      string
}

// eligibleTargets 渠道资格集中在一处判定:
// telegram 所有档位可用, whatsapp 仅 pro/elite,
// 两个聊天渠道都不可达时回退邮件.
func eligibleTargets(p entity.Profile) []target {
	var targets []target
	if p.TelegramId != "" {
		targets = append(targets, target{channel: ChannelTelegram, to: p.TelegramId})
	}
	if (p.Tier == entity.TierPro || p.Tier == entity.TierElite) && p.WhatsApp != "" {
		targets = append(targets, target{channel: ChannelWhatsApp, to: p.WhatsApp})
	}
	if len(targets) == 0 && p.Email != "" {
		targets = append(targets, target{channel: ChannelEmail, to: p.Email})
	}
	return targets
}

func (d *Dispatcher) Dispatch(ctx context.Context, event alert.TriggerEvent) {
	profile, err := d.profiles.FindByUserId(ctx, event.UserId)
	if err != nil {
		slog.Error("failed to load recipient profile, dropping notification",
			"alert_id", event.AlertId, "user_id", event.UserId, "error", err)
		return
	}

	targets := eligibleTargets(profile)
	if len(targets) == 0 {
		slog.Warn("no reachable channel for triggered alert",
			"alert_id", event.AlertId, "user_id", event.UserId, "tier", profile.Tier)
		return
	}

	summary := d.summary(ctx, event)

	var wg sync.WaitGroup
	for _, t := range targets {
		sender, ok := d.senders[t.channel]
		if !ok {
			slog.Warn("channel sender not configured", "channel", t.channel)
			continue
		}
		wg.Add(1)
		go func(t target, sender ChannelSender) {
			defer wg.Done()
			d.deliver(ctx, t, sender, Message{
				To:      t.to,
				Event:   event,
				Summary: summary,
			})
		}(t, sender)
	}
	wg.Wait()
}

func (d *Dispatcher) summary(ctx context.Context, event alert.TriggerEvent) string {
	fallback := fmt.Sprintf("%s hit your %s level at %s.",
		event.Symbol, event.Kind, event.Price.StringFixed(5))
	if d.summarizer == nil {
		return fallback
	}

	sctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	summary, err := d.summarizer.Summarize(sctx, event)
	if err != nil || strings.TrimSpace(summary) == "" {
		slog.Warn("ai summary failed, using fallback",
			"symbol", event.Symbol, "error", err)
		return fallback
	}
	return summary
}

func (d *Dispatcher) deliver(ctx context.Context, t target, sender ChannelSender, msg Message) {
	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				d.record(msg.Event, t.channel, entity.DeliveryStatusFailed, attempt-1, lastErr)
				return
			case <-time.After(time.Duration(attempt-1) * d.backoff):
			}
		}

		if err := sender.Send(ctx, msg); err != nil {
			lastErr = err
			slog.Warn("delivery attempt failed",
				"channel", t.channel, "alert_id", msg.Event.AlertId,
				"attempt", attempt, "error", err)
			continue
		}

		metrics.Deliveries.WithLabelValues(string(t.channel), entity.DeliveryStatusSent).Inc()
		d.record(msg.Event, t.channel, entity.DeliveryStatusSent, attempt, nil)
		return
	}

	// 投递失败只记账, 触发本身已经发生
	metrics.Deliveries.WithLabelValues(string(t.channel), entity.DeliveryStatusFailed).Inc()
	slog.Error("channel delivery failed, alert stays triggered",
		"channel", t.channel, "alert_id", msg.Event.AlertId, "error", lastErr)
	d.record(msg.Event, t.channel, entity.DeliveryStatusFailed, d.maxAttempts, lastErr)
}

func (d *Dispatcher) record(event alert.TriggerEvent, channel Channel, status string, attempts int, cause error) {
	if d.deliveries == nil {
		return
	}
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	// 审计记录不依赖周期上下文, 周期超时也要落库
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := d.deliveries.Create(ctx, entity.Delivery{
		AlertId:   event.AlertId,
		UserId:    event.UserId,
		Channel:   string(channel),
		Status:    status,
		Attempts:  attempts,
		Detail:    detail,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to record delivery outcome",
			"alert_id", event.AlertId, "channel", channel, "error", err)
	}
}
