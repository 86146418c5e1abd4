package chat

import (
	"annam-mithra-backend/entities"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type (
	ChatRepository interface {
		CreateRoom(ctx context.Context, room *entities.ChatRoom) error
		GetRoomByKey(ctx context.Context, roomKey string) (*entities.ChatRoom, error)
		GetUserRooms(ctx context.Context, uid string) ([]*entities.ChatRoom, error)
		AddMessage(ctx context.Context, message *entities.ChatMessage) error
		GetMessages(ctx context.Context, roomKey string) ([]*entities.ChatMessage, error)
		SetLastMessage(ctx context.Context, roomKey string, content string, senderUID string, at time.Time, bumpA bool) error
		MarkRead(ctx context.Context, roomKey string, uid string) error
	}

	chatRepository struct {
		db *gorm.DB
	}
)

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateRoom(ctx context.Context, room *entities.ChatRoom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *chatRepository) GetRoomByKey(ctx context.Context, roomKey string) (*entities.ChatRoom, error) {
	var room entities.ChatRoom
	if err := r.db.WithContext(ctx).
		Preload("Donation").
		Preload("UserA").
		Preload("UserB").
		Where("room_key = ?", roomKey).
		First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) GetUserRooms(ctx context.Context, uid string) ([]*entities.ChatRoom, error) {
	var rooms []*entities.ChatRoom
	if err := r.db.WithContext(ctx).
		Preload("Donation").
		Preload("UserA").
		Preload("UserB").
		Where("participant_a = ? OR participant_b = ?", uid, uid).
		Order("last_message_time DESC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *chatRepository) AddMessage(ctx context.Context, message *entities.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) GetMessages(ctx context.Context, roomKey string) ([]*entities.ChatMessage, error) {
	var messages []*entities.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("room_key = ?", roomKey).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// SetLastMessage denormalizes the latest message onto the room and bumps the
// recipient's unread counter in the same statement. The counter uses an
// atomic SQL increment, not read-modify-write, so concurrent senders cannot
// lose updates.
func (r *chatRepository) SetLastMessage(ctx context.Context, roomKey string, content string, senderUID string, at time.Time, bumpA bool) error {
	updates := map[string]interface{}{
		"last_message":        content,
		"last_message_sender": senderUID,
		"last_message_time":   at,
	}
	if bumpA {
		updates["unread_a"] = gorm.Expr("unread_a + 1")
	} else {
		updates["unread_b"] = gorm.Expr("unread_b + 1")
	}

	return r.db.WithContext(ctx).
		Model(&entities.ChatRoom{}).
		Where("room_key = ?", roomKey).
		Updates(updates).Error
}

func (r *chatRepository) MarkRead(ctx context.Context, roomKey string, uid string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room entities.ChatRoom
		if err := tx.Where("room_key = ?", roomKey).First(&room).Error; err != nil {
			return err
		}

		counter := "unread_b"
		if uid == room.ParticipantA {
			counter = "unread_a"
		}
		if err := tx.Model(&entities.ChatRoom{}).
			Where("room_key = ?", roomKey).
			Update(counter, 0).Error; err != nil {
			return err
		}

		return tx.Model(&entities.ChatMessage{}).
			Where("room_key = ? AND sender_uid != ? AND is_read = ?", roomKey, uid, false).
			Update("is_read", true).Error
	})
}
