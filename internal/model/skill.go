package model

// swagger:model Skill
type Skill struct {
	BaseModel
	UserID           uint   `gorm:"index;not null" json:"userId"`
	Name             string `gorm:"size:100;not null;index" json:"name"`
	IsTeaching       bool   `gorm:"not null" json:"isTeaching"` // 创建后不可变更：教与学是两条独立记录
	ProficiencyLevel string `gorm:"size:20;default:'beginner'" json:"proficiencyLevel"`
	IsVerified       bool   `gorm:"default:false" json:"isVerified"`
}

func (Skill) TableName() string {
	return "skills"
}
