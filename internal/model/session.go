package model

import "time"

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// swagger:model Session
type Session struct {
	BaseModel
	ExchangeID     uint          `gorm:"index;not null" json:"exchangeId"`
	ScheduledTime  time.Time     `gorm:"not null" json:"scheduledTime"`
	Duration       int           `gorm:"not null" json:"duration"` // 分钟
	Status         SessionStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	WhiteboardData string        `gorm:"type:longtext" json:"whiteboardData,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}
