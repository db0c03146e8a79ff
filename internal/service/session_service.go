package service

import (
	"errors"
	"fmt"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

var sessionTransitions = map[model.SessionStatus][]model.SessionStatus{
	model.SessionScheduled: {model.SessionCompleted, model.SessionCancelled},
}

type SessionService struct {
	SessionRepo     *repository.SessionRepository
	ExchangeService *ExchangeService
}

func NewSessionService(sessionRepo *repository.SessionRepository, exchangeService *ExchangeService) *SessionService {
	return &SessionService{
		SessionRepo:     sessionRepo,
		ExchangeService: exchangeService,
	}
}

type ScheduleSessionRequest struct {
	ExchangeID    uint      `json:"exchangeId" binding:"required"`
	ScheduledTime time.Time `json:"scheduledTime" binding:"required"`
	Duration      int       `json:"duration" binding:"required,min=1"`
}

func (s *SessionService) ScheduleSession(actingUserID uint, req ScheduleSessionRequest) (*model.Session, error) {
	exchange, err := s.ExchangeService.GetExchange(req.ExchangeID)
	if err != nil {
		return nil, err
	}

	if !exchange.IsParticipant(actingUserID) {
		return nil, fmt.Errorf("%w: user %d is not a participant of exchange %d", util.ErrForbidden, actingUserID, req.ExchangeID)
	}

	session := &model.Session{
		ExchangeID:    req.ExchangeID,
		ScheduledTime: req.ScheduledTime,
		Duration:      req.Duration,
		Status:        model.SessionScheduled,
	}

	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *SessionService) GetSession(id uint) (*model.Session, error) {
	session, err := s.SessionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %d", util.ErrNotFound, id)
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) GetExchangeSessions(actingUserID, exchangeID uint) ([]model.Session, error) {
	exchange, err := s.ExchangeService.GetExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if !exchange.IsParticipant(actingUserID) {
		return nil, fmt.Errorf("%w: user %d is not a participant of exchange %d", util.ErrForbidden, actingUserID, exchangeID)
	}
	return s.SessionRepo.FindByExchange(exchangeID)
}

// UpdateSessionStatus 课时状态迁移。
// 翻转到 completed 时同步级联父交换的计数与结课判定，无异步窗口。
func (s *SessionService) UpdateSessionStatus(sessionID uint, newStatus model.SessionStatus, actingUserID uint) (*model.Session, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	exchange, err := s.ExchangeService.GetExchange(session.ExchangeID)
	if err != nil {
		return nil, err
	}
	if !exchange.IsParticipant(actingUserID) {
		return nil, fmt.Errorf("%w: user %d is not a participant of exchange %d", util.ErrForbidden, actingUserID, exchange.ID)
	}

	if !sessionTransitionAllowed(session.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot transition session from %s to %s", util.ErrConflict, session.Status, newStatus)
	}

	if newStatus == model.SessionCompleted {
		// CAS 翻转，并发完成同一课时只级联一次
		flipped, err := s.SessionRepo.MarkCompleted(sessionID)
		if err != nil {
			return nil, err
		}
		if flipped {
			if _, err := s.ExchangeService.RecordSessionCompletion(session.ExchangeID); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.SessionRepo.UpdateStatus(sessionID, newStatus); err != nil {
			return nil, err
		}
	}

	return s.GetSession(sessionID)
}

func sessionTransitionAllowed(from, to model.SessionStatus) bool {
	for _, allowed := range sessionTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
