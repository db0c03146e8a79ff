package service

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
)

// ActivityService 追加活动日志，积分与等级随日志同步累加
type ActivityService struct {
	ActivityRepo *repository.ActivityRepository
	UserRepo     *repository.UserRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository, userRepo *repository.UserRepository) *ActivityService {
	return &ActivityService{
		ActivityRepo: activityRepo,
		UserRepo:     userRepo,
	}
}

func (s *ActivityService) Award(userID uint, activityType model.ActivityType, description string, points int) (*model.Activity, error) {
	activity := &model.Activity{
		UserID:      userID,
		Type:        activityType,
		Description: description,
		Points:      points,
	}

	if err := s.ActivityRepo.Create(activity); err != nil {
		return nil, err
	}

	if points > 0 {
		if err := s.UserRepo.AddPoints(userID, points); err != nil {
			return nil, err
		}
	}

	return activity, nil
}

func (s *ActivityService) GetUserActivities(userID uint, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.ActivityRepo.FindByUser(userID, limit)
}
