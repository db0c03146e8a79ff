package model

type ExchangeStatus string

const (
	ExchangePending   ExchangeStatus = "pending"
	ExchangeActive    ExchangeStatus = "active"
	ExchangeCompleted ExchangeStatus = "completed"
	ExchangeCancelled ExchangeStatus = "cancelled"
)

// DefaultTotalSessions 未配置时每个交换默认的课时数
const DefaultTotalSessions = 3

// swagger:model Exchange
type Exchange struct {
	BaseModel
	TeacherID         uint           `gorm:"index;not null" json:"teacherId"`
	StudentID         uint           `gorm:"index;not null" json:"studentId"`
	TeacherSkillID    uint           `gorm:"not null" json:"teacherSkillId"`
	StudentSkillID    uint           `gorm:"not null" json:"studentSkillId"`
	Status            ExchangeStatus `gorm:"size:20;default:'pending'" json:"status"`
	SessionsCompleted int            `gorm:"default:0" json:"sessionsCompleted"`
	TotalSessions     int            `gorm:"default:3" json:"totalSessions"`
}

func (Exchange) TableName() string {
	return "exchanges"
}

// IsParticipant 判断用户是否为交换双方之一
func (e *Exchange) IsParticipant(userID uint) bool {
	return e.TeacherID == userID || e.StudentID == userID
}

// IsTerminal completed/cancelled 为终态，不允许再迁移
func (s ExchangeStatus) IsTerminal() bool {
	return s == ExchangeCompleted || s == ExchangeCancelled
}
