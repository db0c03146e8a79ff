package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type ExchangeRepository struct {
	DB *gorm.DB
}

func NewExchangeRepository(db *gorm.DB) *ExchangeRepository {
	return &ExchangeRepository{DB: db}
}

func (r *ExchangeRepository) Create(exchange *model.Exchange) error {
	return r.DB.Create(exchange).Error
}

func (r *ExchangeRepository) FindByID(id uint) (*model.Exchange, error) {
	var exchange model.Exchange
	err := r.DB.First(&exchange, id).Error
	return &exchange, err
}

func (r *ExchangeRepository) FindByUser(userID uint) ([]model.Exchange, error) {
	var exchanges []model.Exchange
	err := r.DB.
		Where("teacher_id = ? OR student_id = ?", userID, userID).
		Order("id DESC").
		Find(&exchanges).Error
	return exchanges, err
}

func (r *ExchangeRepository) UpdateStatus(id uint, status model.ExchangeStatus) error {
	return r.DB.Model(&model.Exchange{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// IncrementSessionsCompleted 带上限保护的计数器自增。
// WHERE 条件同时校验上限，并发重复完成同一课时不会超额累加。
// 返回是否真正加了一次。
func (r *ExchangeRepository) IncrementSessionsCompleted(id uint) (bool, error) {
	res := r.DB.Model(&model.Exchange{}).
		Where("id = ? AND sessions_completed < total_sessions", id).
		Update("sessions_completed", gorm.Expr("sessions_completed + 1"))
	return res.RowsAffected > 0, res.Error
}

// MarkCompleted 终态迁移，仅在尚未 completed 时生效，保证收尾副作用只触发一次
func (r *ExchangeRepository) MarkCompleted(id uint) (bool, error) {
	res := r.DB.Model(&model.Exchange{}).
		Where("id = ? AND status <> ?", id, model.ExchangeCompleted).
		Update("status", model.ExchangeCompleted)
	return res.RowsAffected > 0, res.Error
}
