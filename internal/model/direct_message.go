package model

// swagger:model DirectMessage
type DirectMessage struct {
	BaseModel
	SenderID   uint   `gorm:"index;not null" json:"senderId"`
	ReceiverID uint   `gorm:"index;not null" json:"receiverId"`
	Content    string `gorm:"size:2000;not null" json:"content"`
}

func (DirectMessage) TableName() string {
	return "direct_messages"
}
