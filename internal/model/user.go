package model

import (
	"time"
)

// PointsPerLevel 每升一级所需积分
const PointsPerLevel = 500

// swagger:model User
type User struct {
	BaseModel
	Name     string    `gorm:"size:100;not null" json:"name"`
	Email    string    `gorm:"size:100;unique;not null" json:"email"`
	Bio      string    `gorm:"size:500" json:"bio"`
	Avatar   string    `gorm:"size:255" json:"avatar"`
	Points   int       `gorm:"default:0" json:"points"` // 积分只增不减，由 Activity 奖励驱动
	Level    int       `gorm:"default:1" json:"level"`
	LastSeen time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// LevelForPoints 等级由积分唯一确定
func LevelForPoints(points int) int {
	return points/PointsPerLevel + 1
}

// PublicProfile 对外公开的用户信息（不含邮箱等敏感字段）
type PublicProfile struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Level  int    `json:"level"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
		Level:  u.Level,
	}
}
