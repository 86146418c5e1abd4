package notification

import (
	"annam-mithra-backend/entities"
	"annam-mithra-backend/internal/utils/mailing"
	"annam-mithra-backend/pkg/user"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const (
	sendTimeout = 5 * time.Second

	// How far out to fan out "new donation nearby" pushes, in km.
	nearbyFanoutRadiusKm = 10.0
)

type (
	// Trigger decides which state transitions warrant an outbound push and
	// resolves the target device tokens. Delivery is best-effort: failures
	// are logged and never surfaced to the triggering transaction.
	Trigger interface {
		OnNewDonationNearby(donation *entities.Donation)
		OnInterestReceived(interest *entities.Interest, donation *entities.Donation)
		OnInterestAccepted(interest *entities.Interest, donation *entities.Donation)
		OnChatMessage(message *entities.ChatMessage, room *entities.ChatRoom)
	}

	notificationTrigger struct {
		gateway        PushGateway
		userRepository user.UserRepository
		sendMail       func(toEmail, subject, body string) error
	}
)

func NewNotificationTrigger(gateway PushGateway, userRepository user.UserRepository) Trigger {
	return &notificationTrigger{
		gateway:        gateway,
		userRepository: userRepository,
		sendMail:       mailing.SendMail,
	}
}

func (t *notificationTrigger) OnNewDonationNearby(donation *entities.Donation) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		receivers, err := t.userRepository.GetReceiversNear(ctx, donation.Latitude, donation.Longitude, nearbyFanoutRadiusKm)
		if err != nil {
			log.Warnf("notification: resolving nearby receivers failed: %v", err)
			return
		}

		title := "Food available near you"
		body := fmt.Sprintf("%s (%d servings) was just listed in your area", donation.FoodName, donation.Quantity)
		data := map[string]string{"type": "new_donation", "donation_id": donation.ID.String()}

		for _, receiver := range receivers {
			if receiver.UID == donation.DonorUID {
				continue
			}
			t.deliver(ctx, receiver, title, body, data)
		}
	}()
}

func (t *notificationTrigger) OnInterestReceived(interest *entities.Interest, donation *entities.Donation) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		donor, err := t.userRepository.GetUserByUID(ctx, donation.DonorUID)
		if err != nil {
			log.Warnf("notification: resolving donor %s failed: %v", donation.DonorUID, err)
			return
		}

		t.deliver(ctx, donor,
			"New request for your donation",
			fmt.Sprintf("Someone requested %s", donation.FoodName),
			map[string]string{
				"type":        "interest_received",
				"donation_id": donation.ID.String(),
				"interest_id": interest.ID.String(),
			},
		)
	}()
}

func (t *notificationTrigger) OnInterestAccepted(interest *entities.Interest, donation *entities.Donation) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		receiver, err := t.userRepository.GetUserByUID(ctx, interest.ReceiverUID)
		if err != nil {
			log.Warnf("notification: resolving receiver %s failed: %v", interest.ReceiverUID, err)
			return
		}

		t.deliver(ctx, receiver,
			"Your request was accepted",
			fmt.Sprintf("The donor accepted your request for %s", donation.FoodName),
			map[string]string{
				"type":        "interest_accepted",
				"donation_id": donation.ID.String(),
				"interest_id": interest.ID.String(),
			},
		)
	}()
}

func (t *notificationTrigger) OnChatMessage(message *entities.ChatMessage, room *entities.ChatRoom) {
	recipientUID := room.ParticipantA
	if message.SenderUID == room.ParticipantA {
		recipientUID = room.ParticipantB
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		recipient, err := t.userRepository.GetUserByUID(ctx, recipientUID)
		if err != nil {
			log.Warnf("notification: resolving chat recipient %s failed: %v", recipientUID, err)
			return
		}

		t.deliver(ctx, recipient,
			"New message",
			message.Content,
			map[string]string{
				"type":     "chat_message",
				"room_key": room.RoomKey,
			},
		)
	}()
}

// deliver pushes to the user's device token, falling back to email when no
// token is registered. Both channels fail soft.
func (t *notificationTrigger) deliver(ctx context.Context, target *entities.User, title, body string, data map[string]string) {
	if target.DeviceToken != "" {
		if err := t.gateway.Send(ctx, target.DeviceToken, title, body, data); err != nil {
			log.Warnf("notification: push to %s failed: %v", target.UID, err)
		}
		return
	}

	if target.Email == "" {
		log.Infof("notification: user %s has no device token or email, skipping", target.UID)
		return
	}
	if err := t.sendMail(target.Email, title, body); err != nil {
		log.Warnf("notification: email to %s failed: %v", target.UID, err)
	}
}
