package entities

import (
	"github.com/google/uuid"
	"time"
)

type ChatRoom struct {
	// RoomKey is derived from the donation id and the sorted participant
	// pair, so both parties compute the same key.
	RoomKey           string    `gorm:"primary_key" json:"room_key"`
	DonationID        uuid.UUID `json:"donation_id"`
	ParticipantA      string    `json:"participant_a"` // lexicographically smaller uid
	ParticipantB      string    `json:"participant_b"`
	LastMessage       string    `json:"last_message,omitempty"`
	LastMessageSender string    `json:"last_message_sender,omitempty"`
	LastMessageTime   time.Time `json:"last_message_time"`
	UnreadA           int       `json:"unread_a"`
	UnreadB           int       `json:"unread_b"`

	Donation *Donation      `gorm:"foreignKey:DonationID"`
	UserA    *User          `gorm:"foreignKey:ParticipantA"`
	UserB    *User          `gorm:"foreignKey:ParticipantB"`
	Messages []*ChatMessage `gorm:"foreignKey:RoomKey"`
	Timestamp
}

type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RoomKey   string    `json:"room_key"`
	SenderUID string    `json:"sender_uid"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`

	Room   *ChatRoom `gorm:"foreignKey:RoomKey"`
	Sender *User     `gorm:"foreignKey:SenderUID"`
	Timestamp
}
