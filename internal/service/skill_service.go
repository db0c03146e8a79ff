package service

import (
	"errors"
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"

	"gorm.io/gorm"
)

type SkillService struct {
	SkillRepo *repository.SkillRepository
}

func NewSkillService(skillRepo *repository.SkillRepository) *SkillService {
	return &SkillService{SkillRepo: skillRepo}
}

type CreateSkillRequest struct {
	Name             string `json:"name" binding:"required"`
	IsTeaching       *bool  `json:"isTeaching" binding:"required"`
	ProficiencyLevel string `json:"proficiencyLevel"`
}

func (s *SkillService) CreateSkill(userID uint, req CreateSkillRequest) (*model.Skill, error) {
	skill := &model.Skill{
		UserID:           userID,
		Name:             req.Name,
		IsTeaching:       *req.IsTeaching,
		ProficiencyLevel: req.ProficiencyLevel,
	}
	if skill.ProficiencyLevel == "" {
		skill.ProficiencyLevel = "beginner"
	}

	if err := s.SkillRepo.Create(skill); err != nil {
		return nil, err
	}
	return skill, nil
}

func (s *SkillService) GetUserSkills(userID uint) ([]model.Skill, error) {
	return s.SkillRepo.FindByUser(userID)
}

func (s *SkillService) DeleteSkill(userID, skillID uint) error {
	skill, err := s.SkillRepo.FindByID(skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: skill %d", util.ErrNotFound, skillID)
		}
		return err
	}
	if skill.UserID != userID {
		return fmt.Errorf("%w: skill %d does not belong to user %d", util.ErrForbidden, skillID, userID)
	}
	return s.SkillRepo.Delete(skillID)
}
