package badge

import (
	"annam-mithra-backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	BadgeRepository interface {
		CountCompletedDonations(ctx context.Context, donorUID string) (int64, error)
		GetUserBadges(ctx context.Context, uid string) ([]*entities.Badge, error)
		HasBadge(ctx context.Context, uid string, code string) (bool, error)
		AwardBadge(ctx context.Context, badge *entities.Badge) error
	}

	badgeRepository struct {
		db *gorm.DB
	}
)

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) CountCompletedDonations(ctx context.Context, donorUID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("donor_uid = ? AND status = ?", donorUID, "Completed").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *badgeRepository) GetUserBadges(ctx context.Context, uid string) ([]*entities.Badge, error) {
	var badges []*entities.Badge
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", uid).
		Order("created_at ASC").
		Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (r *badgeRepository) HasBadge(ctx context.Context, uid string, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Badge{}).
		Where("user_uid = ? AND code = ?", uid, code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *badgeRepository) AwardBadge(ctx context.Context, badge *entities.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}
