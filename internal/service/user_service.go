package service

import (
	"errors"
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", util.ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetPublicProfile(id uint) (*model.PublicProfile, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	profile := user.Public()
	return &profile, nil
}
