package entities

import (
	"github.com/google/uuid"
	"time"
)

type Donation struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonorUID           string    `json:"donor_uid"`
	FoodName           string    `json:"food_name"`
	Quantity           int       `json:"quantity"`
	RemainingQuantity  int       `json:"remaining_quantity"`
	FoodType           string    `json:"food_type"` // Veg, NonVeg
	Description        string    `json:"description"`
	ImageURL           string    `json:"image_url,omitempty"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Address            string    `json:"address"`
	ContactPhone       string    `json:"contact_phone"`
	TargetReceiverType string    `json:"target_receiver_type"` // Individual, NGO, Both
	Status             string    `json:"status"`               // Active, PartiallyAccepted, Completed, Cancelled
	ExpiresAt          time.Time `json:"expires_at"`

	Donor     *User       `gorm:"foreignKey:DonorUID"`
	Interests []*Interest `gorm:"foreignKey:DonationID"`
	Timestamp
}
