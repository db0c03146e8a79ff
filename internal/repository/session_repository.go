package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.Session, error) {
	var session model.Session
	err := r.DB.First(&session, id).Error
	return &session, err
}

func (r *SessionRepository) FindByExchange(exchangeID uint) ([]model.Session, error) {
	var sessions []model.Session
	err := r.DB.Where("exchange_id = ?", exchangeID).Order("scheduled_time").Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) Update(session *model.Session) error {
	return r.DB.Save(session).Error
}

// MarkCompleted 只允许从非 completed 状态翻转一次，级联计数依赖这个保证
func (r *SessionRepository) MarkCompleted(id uint) (bool, error) {
	res := r.DB.Model(&model.Session{}).
		Where("id = ? AND status <> ?", id, model.SessionCompleted).
		Update("status", model.SessionCompleted)
	return res.RowsAffected > 0, res.Error
}

func (r *SessionRepository) UpdateStatus(id uint, status model.SessionStatus) error {
	return r.DB.Model(&model.Session{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *SessionRepository) UpdateWhiteboard(id uint, data string) error {
	return r.DB.Model(&model.Session{}).
		Where("id = ?", id).
		Update("whiteboard_data", data).
		Error
}
