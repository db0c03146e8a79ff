package service

import (
	"errors"
	"fmt"
	"math"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"

	"gorm.io/gorm"
)

type ReviewService struct {
	ReviewRepo   *repository.ReviewRepository
	ExchangeRepo *repository.ExchangeRepository
}

func NewReviewService(reviewRepo *repository.ReviewRepository, exchangeRepo *repository.ExchangeRepository) *ReviewService {
	return &ReviewService{
		ReviewRepo:   reviewRepo,
		ExchangeRepo: exchangeRepo,
	}
}

type UserRating struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// GetUserRating 被评人的平均分，保留一位小数；无评价时返回 {0, 0}
func (s *ReviewService) GetUserRating(userID uint) (*UserRating, error) {
	reviews, err := s.ReviewRepo.FindByReviewedUser(userID)
	if err != nil {
		return nil, err
	}

	if len(reviews) == 0 {
		return &UserRating{Rating: 0, Count: 0}, nil
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))

	return &UserRating{
		Rating: math.Round(avg*10) / 10,
		Count:  len(reviews),
	}, nil
}

type CreateReviewRequest struct {
	ExchangeID uint   `json:"exchangeId" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment"`
}

// CreateReview 评价人必须是交换参与者，被评人是对方
func (s *ReviewService) CreateReview(reviewerID uint, req CreateReviewRequest) (*model.Review, error) {
	exchange, err := s.ExchangeRepo.FindByID(req.ExchangeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: exchange %d", util.ErrNotFound, req.ExchangeID)
		}
		return nil, err
	}

	if !exchange.IsParticipant(reviewerID) {
		return nil, fmt.Errorf("%w: not a participant of exchange %d", util.ErrForbidden, exchange.ID)
	}

	reviewedID := exchange.TeacherID
	if reviewerID == exchange.TeacherID {
		reviewedID = exchange.StudentID
	}

	review := &model.Review{
		ExchangeID: req.ExchangeID,
		ReviewerID: reviewerID,
		ReviewedID: reviewedID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := s.ReviewRepo.Create(review); err != nil {
		return nil, err
	}

	return review, nil
}
