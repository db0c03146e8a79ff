package service

import (
	"errors"
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompletionPoints 交换结课时双方各得的积分
const CompletionPoints = 100

// validTransitions 状态机白名单，表外的迁移一律拒绝
var validTransitions = map[model.ExchangeStatus][]model.ExchangeStatus{
	model.ExchangePending: {model.ExchangeActive, model.ExchangeCancelled},
	model.ExchangeActive:  {model.ExchangeCompleted, model.ExchangeCancelled},
}

type ExchangeService struct {
	ExchangeRepo    *repository.ExchangeRepository
	SkillRepo       *repository.SkillRepository
	ActivityService *ActivityService

	DefaultTotalSessions int
}

func NewExchangeService(exchangeRepo *repository.ExchangeRepository, skillRepo *repository.SkillRepository, activityService *ActivityService, defaultTotalSessions int) *ExchangeService {
	if defaultTotalSessions <= 0 {
		defaultTotalSessions = model.DefaultTotalSessions
	}
	return &ExchangeService{
		ExchangeRepo:         exchangeRepo,
		SkillRepo:            skillRepo,
		ActivityService:      activityService,
		DefaultTotalSessions: defaultTotalSessions,
	}
}

type CreateExchangeRequest struct {
	TeacherID      uint `json:"teacherId" binding:"required"`
	StudentID      uint `json:"studentId" binding:"required"`
	TeacherSkillID uint `json:"teacherSkillId" binding:"required"`
	StudentSkillID uint `json:"studentSkillId" binding:"required"`
}

func (s *ExchangeService) CreateExchange(actingUserID uint, req CreateExchangeRequest) (*model.Exchange, error) {
	if actingUserID != req.TeacherID && actingUserID != req.StudentID {
		return nil, fmt.Errorf("%w: requester must be teacher or student of the exchange", util.ErrForbidden)
	}

	for _, skillID := range []uint{req.TeacherSkillID, req.StudentSkillID} {
		if _, err := s.SkillRepo.FindByID(skillID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: skill %d", util.ErrNotFound, skillID)
			}
			return nil, err
		}
	}

	exchange := &model.Exchange{
		TeacherID:         req.TeacherID,
		StudentID:         req.StudentID,
		TeacherSkillID:    req.TeacherSkillID,
		StudentSkillID:    req.StudentSkillID,
		Status:            model.ExchangePending,
		SessionsCompleted: 0,
		TotalSessions:     s.DefaultTotalSessions,
	}

	if err := s.ExchangeRepo.Create(exchange); err != nil {
		return nil, err
	}

	// 零积分的请求记录，只留痕不加分
	if _, err := s.ActivityService.Award(actingUserID, model.ActivityExchange, "requested a skill exchange", 0); err != nil {
		logger.Log.Error("failed to log exchange request activity", zap.Error(err), zap.Uint("exchangeId", exchange.ID))
	}

	return exchange, nil
}

func (s *ExchangeService) GetExchange(id uint) (*model.Exchange, error) {
	exchange, err := s.ExchangeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: exchange %d", util.ErrNotFound, id)
		}
		return nil, err
	}
	return exchange, nil
}

func (s *ExchangeService) GetUserExchanges(userID uint) ([]model.Exchange, error) {
	return s.ExchangeRepo.FindByUser(userID)
}

func (s *ExchangeService) UpdateStatus(exchangeID uint, newStatus model.ExchangeStatus, actingUserID uint) (*model.Exchange, error) {
	exchange, err := s.GetExchange(exchangeID)
	if err != nil {
		return nil, err
	}

	if !exchange.IsParticipant(actingUserID) {
		return nil, fmt.Errorf("%w: user %d is not a participant of exchange %d", util.ErrForbidden, actingUserID, exchangeID)
	}

	if !transitionAllowed(exchange.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot transition exchange from %s to %s", util.ErrConflict, exchange.Status, newStatus)
	}

	if newStatus == model.ExchangeCompleted {
		// CAS 翻转保证结课奖励只发一次
		flipped, err := s.ExchangeRepo.MarkCompleted(exchangeID)
		if err != nil {
			return nil, err
		}
		if flipped {
			s.awardCompletionPoints(exchange, "skill exchange completed")
		}
	} else {
		if err := s.ExchangeRepo.UpdateStatus(exchangeID, newStatus); err != nil {
			return nil, err
		}
	}

	return s.GetExchange(exchangeID)
}

// RecordSessionCompletion 由课时结课级联调用。
// 计数自增带上限 CAS，达到目标课时后强制结课并发放奖励。
func (s *ExchangeService) RecordSessionCompletion(exchangeID uint) (*model.Exchange, error) {
	exchange, err := s.GetExchange(exchangeID)
	if err != nil {
		return nil, err
	}

	incremented, err := s.ExchangeRepo.IncrementSessionsCompleted(exchangeID)
	if err != nil {
		return nil, err
	}
	if !incremented {
		logger.Log.Warn("session completion ignored, exchange already at target",
			zap.Uint("exchangeId", exchangeID))
		return s.GetExchange(exchangeID)
	}

	exchange, err = s.GetExchange(exchangeID)
	if err != nil {
		return nil, err
	}

	if exchange.SessionsCompleted >= exchange.TotalSessions {
		flipped, err := s.ExchangeRepo.MarkCompleted(exchangeID)
		if err != nil {
			return nil, err
		}
		if flipped {
			s.awardCompletionPoints(exchange, "completed all sessions")
		}
		return s.GetExchange(exchangeID)
	}

	return exchange, nil
}

// awardCompletionPoints 师生双方各记一条 100 分的活动
func (s *ExchangeService) awardCompletionPoints(exchange *model.Exchange, reason string) {
	awards := []struct {
		userID uint
		role   string
	}{
		{exchange.TeacherID, "teacher"},
		{exchange.StudentID, "student"},
	}

	for _, a := range awards {
		description := fmt.Sprintf("%s as %s", reason, a.role)
		if _, err := s.ActivityService.Award(a.userID, model.ActivityExchange, description, CompletionPoints); err != nil {
			logger.Log.Error("failed to award completion points",
				zap.Error(err),
				zap.Uint("exchangeId", exchange.ID),
				zap.Uint("userId", a.userID))
		}
	}
}

func transitionAllowed(from, to model.ExchangeStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
