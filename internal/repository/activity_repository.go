package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(activity *model.Activity) error {
	return r.DB.Create(activity).Error
}

func (r *ActivityRepository) FindByUser(userID uint, limit int) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.DB.
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
