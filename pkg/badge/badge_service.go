package badge

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"context"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Milestone thresholds on completed donations, in ascending order.
var milestones = []struct {
	Count int64
	Code  string
	Name  string
}{
	{1, "FirstMeal", "First Meal Shared"},
	{10, "TenMeals", "Ten Meals Shared"},
	{50, "FiftyMeals", "Fifty Meals Shared"},
	{100, "HundredMeals", "Hundred Meals Shared"},
}

type (
	BadgeService interface {
		// EvaluateDonor awards any milestone badges the donor's completed
		// donation count has crossed. Best-effort: failures are logged,
		// never propagated to the completing transaction.
		EvaluateDonor(ctx context.Context, donorUID string)
		ListBadges(ctx context.Context, uid string) ([]*domain.Badge, error)
	}

	badgeService struct {
		badgeRepository BadgeRepository
	}
)

func NewBadgeService(badgeRepository BadgeRepository) BadgeService {
	return &badgeService{badgeRepository: badgeRepository}
}

func (s *badgeService) EvaluateDonor(ctx context.Context, donorUID string) {
	completed, err := s.badgeRepository.CountCompletedDonations(ctx, donorUID)
	if err != nil {
		log.Warnf("badge: counting completed donations for %s failed: %v", donorUID, err)
		return
	}

	for _, milestone := range milestones {
		if completed < milestone.Count {
			break
		}

		has, err := s.badgeRepository.HasBadge(ctx, donorUID, milestone.Code)
		if err != nil {
			log.Warnf("badge: checking %s for %s failed: %v", milestone.Code, donorUID, err)
			return
		}
		if has {
			continue
		}

		err = s.badgeRepository.AwardBadge(ctx, &entities.Badge{
			ID:      uuid.New(),
			UserUID: donorUID,
			Code:    milestone.Code,
			Name:    milestone.Name,
		})
		if err != nil {
			log.Warnf("badge: awarding %s to %s failed: %v", milestone.Code, donorUID, err)
		}
	}
}

func (s *badgeService) ListBadges(ctx context.Context, uid string) ([]*domain.Badge, error) {
	badges, err := s.badgeRepository.GetUserBadges(ctx, uid)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Badge, 0, len(badges))
	for _, badge := range badges {
		result = append(result, &domain.Badge{
			Code:      badge.Code,
			Name:      badge.Name,
			AwardedAt: badge.CreatedAt,
		})
	}
	return result, nil
}
