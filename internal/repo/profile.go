package repo

import (
	"context"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"gorm.io/gorm"
)

type ProfileRepo interface {
	Create(ctx context.Context, profile entity.Profile) error
	FindByUserId(ctx context.Context, userId int64) (entity.Profile, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &profileRepo{
		db: db,
	}
}

func (r *profileRepo) Create(ctx context.Context, profile entity.Profile) error {
	return r.db.WithContext(ctx).Create(&profile).Error
}

func (r *profileRepo) FindByUserId(ctx context.Context, userId int64) (entity.Profile, error) {
	var profile entity.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&profile).Error
	if err != nil {
		return entity.Profile{}, err
	}
	return profile, nil
}
