package repository

import (
	"skillswap_backend/internal/model"

	"gorm.io/gorm"
)

type DirectMessageRepository struct {
	DB *gorm.DB
}

func NewDirectMessageRepository(db *gorm.DB) *DirectMessageRepository {
	return &DirectMessageRepository{DB: db}
}

func (r *DirectMessageRepository) Create(msg *model.DirectMessage) error {
	return r.DB.Create(msg).Error
}

// FindConversation 双向查询两人之间的历史消息
func (r *DirectMessageRepository) FindConversation(userA, userB uint, limit int) ([]model.DirectMessage, error) {
	var messages []model.DirectMessage
	err := r.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("id").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
