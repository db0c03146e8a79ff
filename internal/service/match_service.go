package service

import (
	"errors"
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"sort"

	"gorm.io/gorm"
)

// MatchService 双向技能匹配：对方教我想学的，同时想学我能教的
type MatchService struct {
	SkillRepo     *repository.SkillRepository
	UserRepo      *repository.UserRepository
	ReviewService *ReviewService
}

func NewMatchService(skillRepo *repository.SkillRepository, userRepo *repository.UserRepository, reviewService *ReviewService) *MatchService {
	return &MatchService{
		SkillRepo:     skillRepo,
		UserRepo:      userRepo,
		ReviewService: reviewService,
	}
}

// MatchCandidate 按需计算，不落库
type MatchCandidate struct {
	UserID          uint         `json:"userId"`
	Name            string       `json:"name"`
	TeachingSkill   *model.Skill `json:"teachingSkill"` // 对方教授的技能（即我想学的）
	LearningSkill   *model.Skill `json:"learningSkill"` // 对方想学的技能（即我能教的）
	MatchPercentage int          `json:"matchPercentage"`
	Rating          float64      `json:"rating"`
	RatingCount     int          `json:"ratingCount"`
}

// matchPercentage 由用户 ID 确定性生成，稳定落在 [70, 94]。
// 这是展示用的占位启发值而非真实相似度，外部依赖它的只有排序。
func matchPercentage(userID uint) int {
	return 70 + int(userID*7)%25
}

func (s *MatchService) FindMatches(requestingUserID, teachingSkillID, learningSkillID uint) ([]MatchCandidate, error) {
	myTeaching, err := s.resolveOwnedSkill(requestingUserID, teachingSkillID)
	if err != nil {
		return nil, err
	}
	myLearning, err := s.resolveOwnedSkill(requestingUserID, learningSkillID)
	if err != nil {
		return nil, err
	}

	if !myTeaching.IsTeaching {
		return nil, fmt.Errorf("%w: skill %d is not a teaching skill", util.ErrInvalidInput, teachingSkillID)
	}
	if myLearning.IsTeaching {
		return nil, fmt.Errorf("%w: skill %d is not a learning skill", util.ErrInvalidInput, learningSkillID)
	}

	// 教授我想学技能的候选人
	teachers, err := s.SkillRepo.FindTeachingByName(myLearning.Name, requestingUserID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	candidates := make([]MatchCandidate, 0, len(teachers))

	for i := range teachers {
		teaching := teachers[i]
		if seen[teaching.UserID] {
			continue
		}

		// 互补校验：对方也想学我教的技能
		learnings, err := s.SkillRepo.FindLearningByUser(teaching.UserID)
		if err != nil {
			return nil, err
		}

		var mutual *model.Skill
		for j := range learnings {
			if learnings[j].Name == myTeaching.Name {
				mutual = &learnings[j]
				break
			}
		}
		if mutual == nil {
			continue
		}

		seen[teaching.UserID] = true

		candidate := MatchCandidate{
			UserID:          teaching.UserID,
			TeachingSkill:   &teaching,
			LearningSkill:   mutual,
			MatchPercentage: matchPercentage(teaching.UserID),
		}

		if user, err := s.UserRepo.FindByID(teaching.UserID); err == nil {
			candidate.Name = user.Name
		}

		rating, err := s.ReviewService.GetUserRating(teaching.UserID)
		if err != nil {
			return nil, err
		}
		candidate.Rating = rating.Rating
		candidate.RatingCount = rating.Count

		candidates = append(candidates, candidate)
	}

	// 稳定排序，百分比相同保持插入顺序
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MatchPercentage > candidates[j].MatchPercentage
	})

	return candidates, nil
}

func (s *MatchService) resolveOwnedSkill(userID, skillID uint) (*model.Skill, error) {
	skill, err := s.SkillRepo.FindByID(skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: skill %d", util.ErrNotFound, skillID)
		}
		return nil, err
	}
	if skill.UserID != userID {
		return nil, fmt.Errorf("%w: skill %d does not belong to user %d", util.ErrForbidden, skillID, userID)
	}
	return skill, nil
}
