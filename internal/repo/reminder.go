package repo

import (
	"context"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"gorm.io/gorm"
)

type ReminderRepo interface {
	Create(ctx context.Context, reminder entity.Reminder) (int64, error)
	FindDue(ctx context.Context, now time.Time) ([]entity.Reminder, error)
	MarkSent(ctx context.Context, id int64) error
	// Reschedule 周期性提醒顺延到下一次触发时间
	Reschedule(ctx context.Context, id int64, next time.Time) error
}

type reminderRepo struct {
	db *gorm.DB
}

func NewReminderRepo(db *gorm.DB) ReminderRepo {
	return &reminderRepo{
		db: db,
	}
}

func (r *reminderRepo) Create(ctx context.Context, reminder entity.Reminder) (int64, error) {
	err := r.db.WithContext(ctx).Create(&reminder).Error
	if err != nil {
		return 0, err
	}
	return reminder.Id, nil
}

func (r *reminderRepo) FindDue(ctx context.Context, now time.Time) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := r.db.WithContext(ctx).
		Where("remind_at <= ? AND sent = ?", now, false).
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *reminderRepo) MarkSent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&entity.Reminder{}).
		Where("id = ?", id).
		Update("sent", true).Error
}

func (r *reminderRepo) Reschedule(ctx context.Context, id int64, next time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]any{"remind_at": next, "sent": false}).Error
}
