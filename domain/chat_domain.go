package domain

import (
	"time"
)

var (
	MessageSuccessGetChats    = "chats retrieved successfully"
	MessageSuccessGetMessages = "messages retrieved successfully"
	MessageSuccessSendMessage = "message sent successfully"
	MessageSuccessMarkRead    = "messages marked as read"

	MessageFailedGetChats    = "failed to retrieve chats"
	MessageFailedGetMessages = "failed to retrieve messages"
	MessageFailedSendMessage = "failed to send message"
	MessageFailedMarkRead    = "failed to mark messages as read"

	ErrChatRoomNotFound = NewNotFoundError("chat room not found")
	ErrNotParticipant   = NewForbiddenError("user is not a participant of this chat")
	ErrEmptyMessage     = NewValidationError("message content must not be empty")
)

type (
	SendChatMessageRequest struct {
		DonationID string `json:"donation_id" validate:"required,uuid"`
		Recipient  string `json:"recipient" validate:"required"`
		Content    string `json:"content" validate:"required,max=2000"`
	}

	ChatRoom struct {
		RoomKey           string    `json:"room_key"`
		DonationID        string    `json:"donation_id"`
		DonationName      string    `json:"donation_name,omitempty"`
		Counterpart       string    `json:"counterpart"`
		CounterpartName   string    `json:"counterpart_name,omitempty"`
		LastMessage       string    `json:"last_message,omitempty"`
		LastMessageSender string    `json:"last_message_sender,omitempty"`
		LastMessageTime   time.Time `json:"last_message_time"`
		UnreadCount       int       `json:"unread_count"`
	}

	ChatMessage struct {
		ID        string    `json:"id"`
		RoomKey   string    `json:"room_key"`
		SenderUID string    `json:"sender_uid"`
		Content   string    `json:"content"`
		IsRead    bool      `json:"is_read"`
		SentAt    time.Time `json:"sent_at"`
	}

	// ChatEvent is what hub subscribers receive over the realtime channel.
	ChatEvent struct {
		Type    string       `json:"type"` // message, room_update
		RoomKey string       `json:"room_key"`
		Message *ChatMessage `json:"message,omitempty"`
		Room    *ChatRoom    `json:"room,omitempty"`
	}
)
