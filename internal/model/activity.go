package model

type ActivityType string

const (
	ActivityExchange ActivityType = "exchange"
	ActivitySession  ActivityType = "session"
)

// Activity 追加式日志，Points > 0 时同步驱动用户积分与等级
// swagger:model Activity
type Activity struct {
	BaseModel
	UserID      uint         `gorm:"index;not null" json:"userId"`
	Type        ActivityType `gorm:"size:30;not null" json:"type"`
	Description string       `gorm:"size:255" json:"description"`
	Points      int          `gorm:"default:0" json:"points"`
}

func (Activity) TableName() string {
	return "activities"
}
