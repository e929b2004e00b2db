package repo

import (
	"context"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"gorm.io/gorm"
)

type AlertRepo interface {
	Create(ctx context.Context, alert entity.Alert) (int64, error)
	FindActive(ctx context.Context) ([]entity.Alert, error)
	// Claim 原子地把规则从 active 置为已触发, 只有恰好更新一行才算认领成功
	Claim(ctx context.Context, id int64, at time.Time) (bool, error)
}

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepo {
	return &alertRepo{
		db: db,
	}
}

func (r *alertRepo) Create(ctx context.Context, alert entity.Alert) (int64, error) {
	err := r.db.WithContext(ctx).Create(&alert).Error
	if err != nil {
		return 0, err
	}
	return alert.Id, nil
}

func (r *alertRepo) FindActive(ctx context.Context) ([]entity.Alert, error) {
	var alerts []entity.Alert
	err := r.db.WithContext(ctx).
		Where("active = ? AND triggered_at IS NULL", true).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) Claim(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Alert{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]any{"active": false, "triggered_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
