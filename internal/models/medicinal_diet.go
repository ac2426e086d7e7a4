package models

import "time"

// MedicinalDietTypeGenerated marks recipes produced by the model.
const MedicinalDietTypeGenerated = 0

const (
	DietInvalid = 0
	DietValid   = 1
)

// MedicinalDiet is a persisted recipe recommendation.
type MedicinalDiet struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	Intro       string    `gorm:"column:intro;type:text" json:"intro"`
	Ingredients string    `gorm:"column:ingredients;type:text" json:"ingredients"`
	Method      string    `gorm:"column:method;type:text" json:"method"`
	Effect      string    `gorm:"column:effect;type:text" json:"effect"`
	Type        int       `gorm:"column:type" json:"type"`
	CreateTime  time.Time `gorm:"column:create_time" json:"createTime"`
	IsValid     int       `gorm:"column:is_valid" json:"isValid"`
}

func (MedicinalDiet) TableName() string {
	return "medicinal_diet"
}
