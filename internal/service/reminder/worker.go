package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/marketwatch-ai/alert-engine/internal/repo"
	"github.com/marketwatch-ai/alert-engine/internal/schedule"
)

// 交易时段开盘时间, UTC
var sessionOpenUTC = map[string][2]int{
	entity.SessionAsian:   {0, 0},
	entity.SessionLondon:  {8, 0},
	entity.SessionNewYork: {13, 0},
}

var sessionLabels = map[string]string{
	entity.SessionAsian:   "Asian Session 🌏",
	entity.SessionLondon:  "London Session 🇬🇧",
	entity.SessionNewYork: "New York Session 🇺🇸",
}

type TextSender interface {
	SendText(ctx context.Context, chatId, text string) error
}

// Worker 到点提醒, 与价格预警互不相干:
// 一次性提醒发完标记 sent, 时段提醒发完顺延到次日同一开盘时间
type Worker struct {
	reminders repo.ReminderRepo
	profiles  repo.ProfileRepo
	sender    TextSender
}

func NewWorker(reminders repo.ReminderRepo, profiles repo.ProfileRepo, sender TextSender) *Worker {
	return &Worker{
		reminders: reminders,
		profiles:  profiles,
		sender:    sender,
	}
}

var _ schedule.Task = (*Worker)(nil)

func (w *Worker) Name() string {
	return "reminder worker task"
}

func (w *Worker) Run(ctx context.Context) error {
	due, err := w.reminders.FindDue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("load due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	slog.Info("firing due reminders", "count", len(due))
	for _, r := range due {
		w.fire(ctx, r)

		if r.Recurring {
			if _, ok := sessionOpenUTC[r.SessionType]; ok {
				next := nextSessionOpen(r.SessionType, time.Now())
				if err = w.reminders.Reschedule(ctx, r.Id, next); err != nil {
					slog.Error("failed to reschedule session reminder",
						"reminder_id", r.Id, "error", err)
				}
				continue
			}
			slog.Warn("recurring reminder without known session, marking sent",
				"reminder_id", r.Id, "session", r.SessionType)
		}
		if err = w.reminders.MarkSent(ctx, r.Id); err != nil {
			slog.Error("failed to mark reminder sent", "reminder_id", r.Id, "error", err)
		}
	}
	return nil
}

func (w *Worker) fire(ctx context.Context, r entity.Reminder) {
	profile, err := w.profiles.FindByUserId(ctx, r.UserId)
	if err != nil {
		slog.Error("failed to load reminder recipient", "reminder_id", r.Id, "error", err)
		return
	}
	if profile.TelegramId == "" {
		slog.Warn("reminder user has no telegram id, skipping",
			"reminder_id", r.Id, "user_id", r.UserId)
		return
	}

	if err = w.sender.SendText(ctx, profile.TelegramId, formatMessage(r)); err != nil {
		slog.Error("reminder telegram send failed",
			"reminder_id", r.Id, "user_id", r.UserId, "error", err)
	}
}

func formatMessage(r entity.Reminder) string {
	if label, ok := sessionLabels[r.SessionType]; ok {
		return fmt.Sprintf("⏰ *%s Open!*\n\n%s", label, r.Message)
	}
	return fmt.Sprintf("⏰ *Reminder*\n\n%s", r.Message)
}

// nextSessionOpen 次日同一开盘时刻 (UTC)
func nextSessionOpen(session string, now time.Time) time.Time {
	open := sessionOpenUTC[session]
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), open[0], open[1], 0, 0, time.UTC)
	return next.AddDate(0, 0, 1)
}
