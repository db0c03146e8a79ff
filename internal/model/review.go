package model

// swagger:model Review
type Review struct {
	BaseModel
	ExchangeID uint   `gorm:"index;not null" json:"exchangeId"`
	ReviewerID uint   `gorm:"index;not null" json:"reviewerId"`
	ReviewedID uint   `gorm:"index;not null" json:"reviewedId"`
	Rating     int    `gorm:"not null" json:"rating"` // 1-5
	Comment    string `gorm:"size:1000" json:"comment"`
}

func (Review) TableName() string {
	return "reviews"
}
