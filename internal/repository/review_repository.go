package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(review *model.Review) error {
	return r.DB.Create(review).Error
}

func (r *ReviewRepository) FindByReviewedUser(userID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.DB.Where("reviewed_id = ?", userID).Find(&reviews).Error
	return reviews, err
}
