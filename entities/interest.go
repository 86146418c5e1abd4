package entities

import (
	"github.com/google/uuid"
)

type Interest struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	DonationID  uuid.UUID `json:"donation_id"`
	ReceiverUID string    `json:"receiver_uid"`
	Message     string    `json:"message,omitempty"`
	// QuantityRequested snapshots the donation quantity at request time.
	QuantityRequested int    `json:"quantity_requested"`
	Status            string `json:"status"` // Pending, Accepted, Declined, Completed

	Donation *Donation `gorm:"foreignKey:DonationID"`
	Receiver *User     `gorm:"foreignKey:ReceiverUID"`
	Timestamp
}
