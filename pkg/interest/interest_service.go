package interest

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"annam-mithra-backend/pkg/badge"
	"annam-mithra-backend/pkg/chat"
	"annam-mithra-backend/pkg/donation"
	"annam-mithra-backend/pkg/notification"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	InterestService interface {
		RequestInterest(ctx context.Context, req domain.CreateInterestRequest, receiverUID string) (*domain.Interest, error)
		AcceptInterest(ctx context.Context, req domain.AcceptInterestRequest, donorUID string) (*domain.Interest, error)
		DeclineInterest(ctx context.Context, req domain.DeclineInterestRequest, donorUID string) error
		ListReceived(ctx context.Context, donorUID string) ([]*domain.Interest, error)
		ListSent(ctx context.Context, receiverUID string) ([]*domain.Interest, error)
	}

	interestService struct {
		interestRepository InterestRepository
		donationRepository donation.DonationRepository
		chatService        chat.ChatService
		badgeService       badge.BadgeService
		notifier           notification.Trigger
	}
)

func NewInterestService(
	interestRepository InterestRepository,
	donationRepository donation.DonationRepository,
	chatService chat.ChatService,
	badgeService badge.BadgeService,
	notifier notification.Trigger,
) InterestService {
	return &interestService{
		interestRepository: interestRepository,
		donationRepository: donationRepository,
		chatService:        chatService,
		badgeService:       badgeService,
		notifier:           notifier,
	}
}

func (s *interestService) RequestInterest(ctx context.Context, req domain.CreateInterestRequest, receiverUID string) (*domain.Interest, error) {
	target, err := s.donationRepository.GetDonationByID(ctx, req.DonationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	if target.DonorUID == receiverUID {
		return nil, domain.ErrOwnInterest
	}
	if target.Status != "Active" && target.Status != "PartiallyAccepted" {
		return nil, domain.ErrDonationNotActive
	}
	if !target.ExpiresAt.IsZero() && target.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrDonationNotActive
	}

	pending, err := s.interestRepository.GetPendingInterest(ctx, req.DonationID, receiverUID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, domain.ErrDuplicateInterest
	}

	newInterest := &entities.Interest{
		ID:          uuid.New(),
		DonationID:  target.ID,
		ReceiverUID: receiverUID,
		Message:     req.Message,
		// Snapshot of the listed quantity at request time, so a later donor
		// edit does not change what this receiver asked for.
		QuantityRequested: target.Quantity,
		Status:            "Pending",
	}
	if err := s.interestRepository.CreateInterest(ctx, newInterest); err != nil {
		return nil, err
	}

	s.notifier.OnInterestReceived(newInterest, target)

	return toInterestDTO(newInterest, target), nil
}

func (s *interestService) AcceptInterest(ctx context.Context, req domain.AcceptInterestRequest, donorUID string) (*domain.Interest, error) {
	current, err := s.interestRepository.GetInterestByID(ctx, req.InterestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInterestNotFound
		}
		return nil, err
	}
	if current.DonationID.String() != req.DonationID {
		return nil, domain.ErrInterestMismatch
	}

	switch current.Status {
	case "Accepted":
		// Already accepted, nothing left to do.
		return toInterestDTO(current, current.Donation), nil
	case "Declined":
		return nil, domain.ErrInterestAlreadyClosed
	}

	var locked *entities.Donation
	err = s.donationRepository.WithDonationLock(ctx, req.DonationID, func(m donation.DonationMutator, d *entities.Donation) error {
		if d.DonorUID != donorUID {
			return domain.ErrUnauthorizedDonationAccess
		}
		locked = d

		switch req.Action {
		case "remove":
			d.Status = "Completed"
			d.RemainingQuantity = 0
			if err := m.UpdateFields(ctx, d.ID.String(), map[string]interface{}{
				"status":             "Completed",
				"remaining_quantity": 0,
			}); err != nil {
				return err
			}

		case "keep":
			if req.UpdatedFields != nil {
				// The donor restated the listing while accepting; their edit
				// wins over the automatic decrement.
				updates := map[string]interface{}{}
				if req.UpdatedFields.FoodName != "" {
					updates["food_name"] = req.UpdatedFields.FoodName
					d.FoodName = req.UpdatedFields.FoodName
				}
				if req.UpdatedFields.Description != "" {
					updates["description"] = req.UpdatedFields.Description
					d.Description = req.UpdatedFields.Description
				}
				if req.UpdatedFields.Quantity > 0 {
					updates["quantity"] = req.UpdatedFields.Quantity
					updates["remaining_quantity"] = req.UpdatedFields.Quantity
					d.Quantity = req.UpdatedFields.Quantity
					d.RemainingQuantity = req.UpdatedFields.Quantity
				}
				if len(updates) > 0 {
					if err := m.UpdateFields(ctx, d.ID.String(), updates); err != nil {
						return err
					}
				}
				break
			}

			if err := m.DecrementRemaining(ctx, d.ID.String(), current.QuantityRequested); err != nil {
				return err
			}
			d.RemainingQuantity -= current.QuantityRequested
			if d.RemainingQuantity > 0 && d.Status == "Active" {
				d.Status = "PartiallyAccepted"
				if err := m.UpdateStatus(ctx, d.ID.String(), "PartiallyAccepted"); err != nil {
					return err
				}
			}

		default:
			return domain.ErrInvalidAcceptAction
		}

		// Flip the interest in the same transaction. If this write fails the
		// quantity changes roll back with it, so a retried accept starts from
		// an untouched donation instead of decrementing twice.
		return m.UpdateInterestStatus(ctx, current.ID.String(), "Accepted")
	})
	if err != nil {
		return nil, err
	}
	current.Status = "Accepted"

	// Open the donor-receiver conversation so both sides can coordinate
	// pickup right away.
	if _, err := s.chatService.EnsureRoom(ctx, current.DonationID, donorUID, current.ReceiverUID); err != nil {
		log.Warnf("interest: opening chat room for %s failed: %v", current.ID, err)
	}

	s.notifier.OnInterestAccepted(current, locked)

	if locked.Status == "Completed" {
		s.badgeService.EvaluateDonor(ctx, donorUID)
	}

	return toInterestDTO(current, locked), nil
}

func (s *interestService) DeclineInterest(ctx context.Context, req domain.DeclineInterestRequest, donorUID string) error {
	current, err := s.interestRepository.GetInterestByID(ctx, req.InterestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInterestNotFound
		}
		return err
	}

	if current.Donation == nil || current.Donation.DonorUID != donorUID {
		return domain.ErrUnauthorizedDonationAccess
	}

	switch current.Status {
	case "Declined":
		// Idempotent: declining twice is a no-op.
		return nil
	case "Accepted":
		return domain.ErrInterestAlreadyClosed
	}

	return s.interestRepository.UpdateInterestStatus(ctx, current.ID.String(), "Declined")
}

func (s *interestService) ListReceived(ctx context.Context, donorUID string) ([]*domain.Interest, error) {
	interests, err := s.interestRepository.GetInterestsForDonor(ctx, donorUID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Interest, 0, len(interests))
	for _, item := range interests {
		result = append(result, toInterestDTO(item, item.Donation))
	}
	return result, nil
}

func (s *interestService) ListSent(ctx context.Context, receiverUID string) ([]*domain.Interest, error) {
	interests, err := s.interestRepository.GetInterestsByReceiver(ctx, receiverUID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Interest, 0, len(interests))
	for _, item := range interests {
		result = append(result, toInterestDTO(item, item.Donation))
	}
	return result, nil
}

func toInterestDTO(interest *entities.Interest, d *entities.Donation) *domain.Interest {
	dto := &domain.Interest{
		ID:                interest.ID.String(),
		DonationID:        interest.DonationID.String(),
		ReceiverUID:       interest.ReceiverUID,
		Message:           interest.Message,
		QuantityRequested: interest.QuantityRequested,
		Status:            interest.Status,
		CreatedAt:         interest.CreatedAt,
	}
	if interest.Receiver != nil {
		dto.ReceiverName = interest.Receiver.Name
	}
	if d != nil {
		summary := &domain.Donation{
			ID:                 d.ID.String(),
			DonorUID:           d.DonorUID,
			FoodName:           d.FoodName,
			Quantity:           d.Quantity,
			RemainingQuantity:  d.RemainingQuantity,
			FoodType:           d.FoodType,
			ImageURL:           d.ImageURL,
			Address:            d.Address,
			TargetReceiverType: d.TargetReceiverType,
			Status:             d.Status,
			ExpiresAt:          d.ExpiresAt,
			CreatedAt:          d.CreatedAt,
		}
		if d.Donor != nil {
			summary.DonorName = d.Donor.Name
		}
		dto.Donation = summary
	}
	return dto
}
