package entities

import (
	"github.com/google/uuid"
)

type Tag struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ReporterUID       string    `json:"reporter_uid"`
	Description       string    `json:"description"`
	EstimatedPeople   int       `json:"estimated_people"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	Address           string    `json:"address"`
	VerificationCount int       `json:"verification_count"`
	Status            string    `json:"status"` // Active, Verified

	Reporter      *User              `gorm:"foreignKey:ReporterUID"`
	Verifications []*TagVerification `gorm:"foreignKey:TagID"`
	Timestamp
}

type TagVerification struct {
	TagID       uuid.UUID `gorm:"primary_key" json:"tag_id"`
	VerifierUID string    `gorm:"primary_key" json:"verifier_uid"`

	Tag      *Tag  `gorm:"foreignKey:TagID"`
	Verifier *User `gorm:"foreignKey:VerifierUID"`
	Timestamp
}
