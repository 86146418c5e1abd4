package handlers

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/internal/api/presenters"
	"annam-mithra-backend/pkg/chat"
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	ChatHandler interface {
		SendMessage(c *fiber.Ctx) error
		GetRooms(c *fiber.Ctx) error
		GetMessages(c *fiber.Ctx) error
		MarkRead(c *fiber.Ctx) error
		WebsocketUpgrade(c *fiber.Ctx) error
		WebsocketHandler() fiber.Handler
	}

	chatHandler struct {
		chatService chat.ChatService
		validator   *validator.Validate
	}
)

func NewChatHandler(chatService chat.ChatService, validator *validator.Validate) ChatHandler {
	return &chatHandler{
		chatService: chatService,
		validator:   validator,
	}
}

func (h *chatHandler) SendMessage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SendChatMessageRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendMessage, err)
	}

	message, err := h.chatService.SendMessage(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedSendMessage, err)
	}

	return presenters.SuccessResponse(c, message, fiber.StatusCreated, domain.MessageSuccessSendMessage)
}

func (h *chatHandler) GetRooms(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	rooms, err := h.chatService.ListRooms(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetChats, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"rooms": rooms,
	}, fiber.StatusOK, domain.MessageSuccessGetChats)
}

func (h *chatHandler) GetMessages(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("donationId")
	otherUID := c.Params("otherUid")

	if donationID == "" || otherUID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMessages, domain.ErrChatRoomNotFound)
	}

	messages, err := h.chatService.ListMessages(c.Context(), donationID, otherUID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetMessages, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"messages": messages,
	}, fiber.StatusOK, domain.MessageSuccessGetMessages)
}

func (h *chatHandler) MarkRead(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("donationId")
	otherUID := c.Params("otherUid")

	if donationID == "" || otherUID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMarkRead, domain.ErrChatRoomNotFound)
	}

	if err := h.chatService.MarkRead(c.Context(), donationID, otherUID, userID); err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedMarkRead, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMarkRead)
}

// WebsocketUpgrade gates the upgrade and stashes the identity where the
// websocket handler can reach it.
func (h *chatHandler) WebsocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("allowed", true)
	return c.Next()
}

// WebsocketHandler streams chat events for the authenticated user. With a
// room_key query parameter the stream narrows to one conversation, otherwise
// every room the user participates in is covered.
func (h *chatHandler) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(string)
		if userID == "" {
			_ = conn.Close()
			return
		}

		hub := h.chatService.Hub()
		var sub *chat.Subscription
		if roomKey := conn.Query("room_key"); roomKey != "" {
			// Room keys are guessable from public donation data, so the
			// connection only attaches after a participant check.
			if _, err := h.chatService.AuthorizeRoom(context.Background(), roomKey, userID); err != nil {
				log.Debugf("chat: websocket subscribe to %s by %s rejected: %v", roomKey, userID, err)
				_ = conn.Close()
				return
			}
			sub = hub.SubscribeRoom(roomKey)
		} else {
			sub = hub.SubscribeUser(userID)
		}
		defer hub.Unsubscribe(sub)

		// Reader goroutine: we only care about the close frame, anything
		// the client writes is ignored.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event := <-sub.C:
				if err := conn.WriteJSON(event); err != nil {
					log.Debugf("chat: websocket write to %s failed: %v", userID, err)
					return
				}
			case <-done:
				return
			}
		}
	})
}
