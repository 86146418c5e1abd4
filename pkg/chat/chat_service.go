package chat

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"annam-mithra-backend/pkg/notification"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	ChatService interface {
		EnsureRoom(ctx context.Context, donationID uuid.UUID, uidA string, uidB string) (*entities.ChatRoom, error)
		SendMessage(ctx context.Context, req domain.SendChatMessageRequest, senderUID string) (*domain.ChatMessage, error)
		ListRooms(ctx context.Context, uid string) ([]*domain.ChatRoom, error)
		ListMessages(ctx context.Context, donationID string, otherUID string, requesterUID string) ([]*domain.ChatMessage, error)
		MarkRead(ctx context.Context, donationID string, otherUID string, requesterUID string) error
		AuthorizeRoom(ctx context.Context, roomKey string, uid string) (*entities.ChatRoom, error)
		Hub() *Hub
	}

	chatService struct {
		chatRepository ChatRepository
		hub            *Hub
		notifier       notification.Trigger
	}
)

func NewChatService(chatRepository ChatRepository, hub *Hub, notifier notification.Trigger) ChatService {
	return &chatService{
		chatRepository: chatRepository,
		hub:            hub,
		notifier:       notifier,
	}
}

func (s *chatService) Hub() *Hub {
	return s.hub
}

// EnsureRoom returns the room for the donation and participant pair,
// creating it if this is the first contact. Safe under concurrent callers:
// a duplicate-key create falls back to the existing row.
func (s *chatService) EnsureRoom(ctx context.Context, donationID uuid.UUID, uidA string, uidB string) (*entities.ChatRoom, error) {
	roomKey := RoomKey(donationID.String(), uidA, uidB)

	room, err := s.chatRepository.GetRoomByKey(ctx, roomKey)
	if err != nil {
		return nil, err
	}
	if room != nil {
		return room, nil
	}

	first, second := SortParticipants(uidA, uidB)
	room = &entities.ChatRoom{
		RoomKey:         roomKey,
		DonationID:      donationID,
		ParticipantA:    first,
		ParticipantB:    second,
		LastMessageTime: time.Now(),
	}
	if err := s.chatRepository.CreateRoom(ctx, room); err != nil {
		// Lost a create race; the other caller's row wins.
		existing, getErr := s.chatRepository.GetRoomByKey(ctx, roomKey)
		if getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return room, nil
}

func (s *chatService) SendMessage(ctx context.Context, req domain.SendChatMessageRequest, senderUID string) (*domain.ChatMessage, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}

	donationID, err := uuid.Parse(req.DonationID)
	if err != nil {
		return nil, domain.ErrDonationNotFound
	}

	room, err := s.EnsureRoom(ctx, donationID, senderUID, req.Recipient)
	if err != nil {
		return nil, err
	}
	if senderUID != room.ParticipantA && senderUID != room.ParticipantB {
		return nil, domain.ErrNotParticipant
	}

	now := time.Now()
	message := &entities.ChatMessage{
		ID:        uuid.New(),
		RoomKey:   room.RoomKey,
		SenderUID: senderUID,
		Content:   content,
		IsRead:    false,
	}
	message.CreatedAt = now

	if err := s.chatRepository.AddMessage(ctx, message); err != nil {
		return nil, err
	}

	// Bump the unread counter of the participant who did not send.
	bumpA := senderUID != room.ParticipantA
	if err := s.chatRepository.SetLastMessage(ctx, room.RoomKey, content, senderUID, now, bumpA); err != nil {
		return nil, err
	}

	dto := toMessageDTO(message)
	event := domain.ChatEvent{Type: "message", RoomKey: room.RoomKey, Message: dto}
	s.hub.PublishRoom(room.RoomKey, event)
	s.hub.PublishUser(room.ParticipantA, event)
	s.hub.PublishUser(room.ParticipantB, event)

	s.notifier.OnChatMessage(message, room)

	return dto, nil
}

func (s *chatService) ListRooms(ctx context.Context, uid string) ([]*domain.ChatRoom, error) {
	rooms, err := s.chatRepository.GetUserRooms(ctx, uid)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ChatRoom, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, toRoomDTO(room, uid))
	}
	return result, nil
}

func (s *chatService) ListMessages(ctx context.Context, donationID string, otherUID string, requesterUID string) ([]*domain.ChatMessage, error) {
	room, err := s.lookupRoom(ctx, donationID, otherUID, requesterUID)
	if err != nil {
		return nil, err
	}

	messages, err := s.chatRepository.GetMessages(ctx, room.RoomKey)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.ChatMessage, 0, len(messages))
	for _, message := range messages {
		result = append(result, toMessageDTO(message))
	}
	return result, nil
}

func (s *chatService) MarkRead(ctx context.Context, donationID string, otherUID string, requesterUID string) error {
	room, err := s.lookupRoom(ctx, donationID, otherUID, requesterUID)
	if err != nil {
		return err
	}
	return s.chatRepository.MarkRead(ctx, room.RoomKey, requesterUID)
}

// AuthorizeRoom resolves a room by key and verifies uid is one of its
// participants. Realtime subscriptions go through this before attaching to
// the hub; room keys are derivable from public donation data, so possession
// of a key proves nothing.
func (s *chatService) AuthorizeRoom(ctx context.Context, roomKey string, uid string) (*entities.ChatRoom, error) {
	room, err := s.chatRepository.GetRoomByKey(ctx, roomKey)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrChatRoomNotFound
	}
	if uid != room.ParticipantA && uid != room.ParticipantB {
		return nil, domain.ErrNotParticipant
	}
	return room, nil
}

func (s *chatService) lookupRoom(ctx context.Context, donationID string, otherUID string, requesterUID string) (*entities.ChatRoom, error) {
	roomKey := RoomKey(donationID, requesterUID, otherUID)
	room, err := s.chatRepository.GetRoomByKey(ctx, roomKey)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, domain.ErrChatRoomNotFound
	}
	if requesterUID != room.ParticipantA && requesterUID != room.ParticipantB {
		return nil, domain.ErrNotParticipant
	}
	return room, nil
}

func toRoomDTO(room *entities.ChatRoom, viewerUID string) *domain.ChatRoom {
	counterpart := room.ParticipantA
	counterpartUser := room.UserA
	unread := room.UnreadB
	if viewerUID == room.ParticipantA {
		counterpart = room.ParticipantB
		counterpartUser = room.UserB
		unread = room.UnreadA
	}

	dto := &domain.ChatRoom{
		RoomKey:           room.RoomKey,
		DonationID:        room.DonationID.String(),
		Counterpart:       counterpart,
		LastMessage:       room.LastMessage,
		LastMessageSender: room.LastMessageSender,
		LastMessageTime:   room.LastMessageTime,
		UnreadCount:       unread,
	}
	if room.Donation != nil {
		dto.DonationName = room.Donation.FoodName
	}
	if counterpartUser != nil {
		dto.CounterpartName = counterpartUser.Name
	}
	return dto
}

func toMessageDTO(message *entities.ChatMessage) *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:        message.ID.String(),
		RoomKey:   message.RoomKey,
		SenderUID: message.SenderUID,
		Content:   message.Content,
		IsRead:    message.IsRead,
		SentAt:    message.CreatedAt,
	}
}
