package donation

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"annam-mithra-backend/internal/utils/storage"
	"annam-mithra-backend/pkg/geo"
	"annam-mithra-backend/pkg/notification"
	"annam-mithra-backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Listings expire a fixed window after creation.
	donationTTL = 24 * time.Hour
)

type (
	DonationService interface {
		Submit(ctx context.Context, req domain.SubmitDonationRequest, donorUID string) ([]*domain.Donation, error)
		ListActive(ctx context.Context, donorUID string) ([]*domain.Donation, error)
		Nearby(ctx context.Context, req domain.NearbyDonationsRequest) ([]*domain.Donation, error)
		AdjustQuantity(ctx context.Context, donationID string, newQuantity int, requestingUID string) (*domain.Donation, error)
		Remove(ctx context.Context, donationID string, requestingUID string) error
		MarkCompleted(ctx context.Context, donationID string) error
	}

	donationService struct {
		donationRepository DonationRepository
		userRepository     user.UserRepository
		s3                 storage.AwsS3
		notifier           notification.Trigger
	}
)

func NewDonationService(donationRepository DonationRepository, userRepository user.UserRepository, s3 storage.AwsS3, notifier notification.Trigger) DonationService {
	return &donationService{
		donationRepository: donationRepository,
		userRepository:     userRepository,
		s3:                 s3,
		notifier:           notifier,
	}
}

func (s *donationService) Submit(ctx context.Context, req domain.SubmitDonationRequest, donorUID string) ([]*domain.Donation, error) {
	donor, err := s.userRepository.GetUserByUID(ctx, donorUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownDonor
		}
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, domain.ErrNoDonationItems
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.DishName) == "" {
			return nil, domain.ErrNoDonationItems
		}
	}

	// One uploaded image covers the whole submission.
	var imageURL string
	if req.Image != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("donation-%s", uuid.New().String()),
			req.Image,
			"donations",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		imageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	expiresAt := time.Now().Add(donationTTL)

	// One submission with several dishes produces one Donation row per
	// dish, each with its own lifecycle.
	result := make([]*domain.Donation, 0, len(req.Items))
	for _, item := range req.Items {
		quantity := parseQuantity(item.Quantity)

		donation := &entities.Donation{
			ID:                 uuid.New(),
			DonorUID:           donorUID,
			FoodName:           strings.TrimSpace(item.DishName),
			Quantity:           quantity,
			RemainingQuantity:  quantity,
			FoodType:           req.FoodType,
			Description:        req.Description,
			ImageURL:           imageURL,
			Latitude:           req.Latitude,
			Longitude:          req.Longitude,
			Address:            req.Address,
			ContactPhone:       req.ContactPhone,
			TargetReceiverType: req.TargetReceiverType,
			Status:             "Active",
			ExpiresAt:          expiresAt,
		}

		if err := s.donationRepository.CreateDonation(ctx, donation); err != nil {
			return nil, err
		}

		s.notifier.OnNewDonationNearby(donation)

		dto := toDonationDTO(donation)
		dto.DonorName = donor.Name
		result = append(result, dto)
	}

	return result, nil
}

func (s *donationService) ListActive(ctx context.Context, donorUID string) ([]*domain.Donation, error) {
	donations, err := s.donationRepository.GetActiveDonations(ctx, donorUID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Donation, 0, len(donations))
	for _, donation := range donations {
		result = append(result, toDonationDTO(donation))
	}
	return result, nil
}

func (s *donationService) Nearby(ctx context.Context, req domain.NearbyDonationsRequest) ([]*domain.Donation, error) {
	donations, err := s.donationRepository.GetNearbyActive(ctx, req.Latitude, req.Longitude, req.Radius)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	origin := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}

	candidates := make([]*entities.Donation, 0, len(donations))
	points := make([]geo.Coordinate, 0, len(donations))
	for _, donation := range donations {
		if !donation.ExpiresAt.After(now) {
			continue
		}
		if !foodTypeMatches(req.FoodType, donation.FoodType) {
			continue
		}
		if !ReceiverTypeMatches(donation.TargetReceiverType, req.ReceiverCategory) {
			continue
		}
		candidates = append(candidates, donation)
		points = append(points, geo.Coordinate{Latitude: donation.Latitude, Longitude: donation.Longitude})
	}

	// The SQL earth_box prefilter is coarse; keep only exact Haversine
	// matches and annotate each with its distance. Repository order
	// (newest first) is preserved.
	matches := geo.WithinRadius(origin, req.Radius, points)

	result := make([]*domain.Donation, 0, len(matches))
	for _, match := range matches {
		dto := toDonationDTO(candidates[match.Index])
		dto.Distance = match.Distance
		result = append(result, dto)
	}
	return result, nil
}

func (s *donationService) AdjustQuantity(ctx context.Context, donationID string, newQuantity int, requestingUID string) (*domain.Donation, error) {
	if newQuantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	err := s.donationRepository.WithDonationLock(ctx, donationID, func(m DonationMutator, d *entities.Donation) error {
		if d.DonorUID != requestingUID {
			return domain.ErrUnauthorizedDonationAccess
		}
		return m.UpdateFields(ctx, donationID, map[string]interface{}{
			"quantity":           newQuantity,
			"remaining_quantity": newQuantity,
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.donationRepository.GetDonationByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	return toDonationDTO(updated), nil
}

func (s *donationService) Remove(ctx context.Context, donationID string, requestingUID string) error {
	// Soft removal keeps history and existing interests valid.
	return s.donationRepository.WithDonationLock(ctx, donationID, func(m DonationMutator, d *entities.Donation) error {
		if d.DonorUID != requestingUID {
			return domain.ErrUnauthorizedDonationAccess
		}
		return m.UpdateStatus(ctx, donationID, "Cancelled")
	})
}

// MarkCompleted is idempotent; completing an already-completed donation is a
// no-op.
func (s *donationService) MarkCompleted(ctx context.Context, donationID string) error {
	return s.donationRepository.UpdateDonationStatus(ctx, donationID, "Completed")
}

// parseQuantity mirrors the lenient client behavior: the leading integer of
// the free-text quantity is used, and anything unparseable or non-positive
// falls back to 1.
func parseQuantity(raw string) int {
	trimmed := strings.TrimSpace(raw)
	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return 1
	}

	quantity := 0
	for _, c := range trimmed[:end] {
		quantity = quantity*10 + int(c-'0')
		if quantity > 1_000_000 {
			return 1
		}
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}

func foodTypeMatches(filter string, foodType string) bool {
	if filter == "" || filter == "Both" {
		return true
	}
	return filter == foodType
}

// ReceiverTypeMatches reports whether a donation targeting targetType is
// visible to a receiver of the given category. Individual receivers match
// Individual/Both listings; the NGO family (NGO, Charity, Ashram, Bulk)
// matches NGO/Both listings.
func ReceiverTypeMatches(targetType string, receiverCategory string) bool {
	if receiverCategory == "" {
		return true
	}
	if targetType == "Both" || targetType == "" {
		return true
	}

	switch receiverCategory {
	case "Individual":
		return targetType == "Individual"
	case "NGO", "Charity", "Ashram", "Bulk":
		return targetType == "NGO"
	default:
		return true
	}
}

func toDonationDTO(donation *entities.Donation) *domain.Donation {
	dto := &domain.Donation{
		ID:                 donation.ID.String(),
		DonorUID:           donation.DonorUID,
		FoodName:           donation.FoodName,
		Quantity:           donation.Quantity,
		RemainingQuantity:  donation.RemainingQuantity,
		FoodType:           donation.FoodType,
		Description:        donation.Description,
		ImageURL:           donation.ImageURL,
		Latitude:           donation.Latitude,
		Longitude:          donation.Longitude,
		Address:            donation.Address,
		ContactPhone:       donation.ContactPhone,
		TargetReceiverType: donation.TargetReceiverType,
		Status:             donation.Status,
		ExpiresAt:          donation.ExpiresAt,
		CreatedAt:          donation.CreatedAt,
	}
	if donation.Donor != nil {
		dto.DonorName = donation.Donor.Name
	}
	return dto
}
