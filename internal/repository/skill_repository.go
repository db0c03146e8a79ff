package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Create(skill).Error
}

func (r *SkillRepository) FindByID(id uint) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.First(&skill, id).Error
	return &skill, err
}

func (r *SkillRepository) FindByUser(userID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Where("user_id = ?", userID).Order("id").Find(&skills).Error
	return skills, err
}

// FindTeachingByName 查找其他用户教授某项技能的全部记录，按创建顺序返回
func (r *SkillRepository) FindTeachingByName(name string, excludeUserID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.
		Where("is_teaching = ? AND name = ? AND user_id <> ?", true, name, excludeUserID).
		Order("id").
		Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindLearningByUser(userID uint) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.
		Where("user_id = ? AND is_teaching = ?", userID, false).
		Order("id").
		Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Skill{}, id).Error
}
