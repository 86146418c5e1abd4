package entities

import (
	"github.com/google/uuid"
)

type Badge struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserUID string    `json:"user_uid"`
	Code    string    `json:"code"` // FirstMeal, TenMeals, FiftyMeals, HundredMeals
	Name    string    `json:"name"`

	User *User `gorm:"foreignKey:UserUID"`
	Timestamp
}
