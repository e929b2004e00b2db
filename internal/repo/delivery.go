package repo

import (
	"context"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"gorm.io/gorm"
)

type DeliveryRepo interface {
	Create(ctx context.Context, delivery entity.Delivery) (int64, error)
	FindFailedSince(ctx context.Context, since time.Time) ([]entity.Delivery, error)
}

type deliveryRepo struct {
	db *gorm.DB
}

func NewDeliveryRepo(db *gorm.DB) DeliveryRepo {
	return &deliveryRepo{
		db: db,
	}
}

func (r *deliveryRepo) Create(ctx context.Context, delivery entity.Delivery) (int64, error) {
	err := r.db.WithContext(ctx).Create(&delivery).Error
	if err != nil {
		return 0, err
	}
	return delivery.Id, nil
}

func (r *deliveryRepo) FindFailedSince(ctx context.Context, since time.Time) ([]entity.Delivery, error) {
	var deliveries []entity.Delivery
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at >= ?", entity.DeliveryStatusFailed, since).
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}
