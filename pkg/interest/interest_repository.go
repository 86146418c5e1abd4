package interest

import (
	"annam-mithra-backend/entities"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	InterestRepository interface {
		CreateInterest(ctx context.Context, interest *entities.Interest) error
		GetInterestByID(ctx context.Context, id string) (*entities.Interest, error)
		GetPendingInterest(ctx context.Context, donationID string, receiverUID string) (*entities.Interest, error)
		GetInterestsForDonor(ctx context.Context, donorUID string) ([]*entities.Interest, error)
		GetInterestsByReceiver(ctx context.Context, receiverUID string) ([]*entities.Interest, error)
		UpdateInterestStatus(ctx context.Context, id string, status string) error
	}

	interestRepository struct {
		db *gorm.DB
	}
)

func NewInterestRepository(db *gorm.DB) InterestRepository {
	return &interestRepository{db: db}
}

func (r *interestRepository) CreateInterest(ctx context.Context, interest *entities.Interest) error {
	return r.db.WithContext(ctx).Create(interest).Error
}

func (r *interestRepository) GetInterestByID(ctx context.Context, id string) (*entities.Interest, error) {
	var interest entities.Interest
	if err := r.db.WithContext(ctx).
		Preload("Donation").
		Preload("Receiver").
		Where("id = ?", id).
		First(&interest).Error; err != nil {
		return nil, err
	}
	return &interest, nil
}

func (r *interestRepository) GetPendingInterest(ctx context.Context, donationID string, receiverUID string) (*entities.Interest, error) {
	var interest entities.Interest
	if err := r.db.WithContext(ctx).
		Where("donation_id = ? AND receiver_uid = ? AND status = ?", donationID, receiverUID, "Pending").
		First(&interest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &interest, nil
}

func (r *interestRepository) GetInterestsForDonor(ctx context.Context, donorUID string) ([]*entities.Interest, error) {
	var interests []*entities.Interest
	if err := r.db.WithContext(ctx).
		Preload("Donation").
		Preload("Receiver").
		Joins("JOIN donations ON donations.id = interests.donation_id").
		Where("donations.donor_uid = ?", donorUID).
		Order("interests.created_at DESC").
		Find(&interests).Error; err != nil {
		return nil, err
	}
	return interests, nil
}

func (r *interestRepository) GetInterestsByReceiver(ctx context.Context, receiverUID string) ([]*entities.Interest, error) {
	var interests []*entities.Interest
	if err := r.db.WithContext(ctx).
		Preload("Donation").
		Preload("Donation.Donor").
		Where("receiver_uid = ?", receiverUID).
		Order("created_at DESC").
		Find(&interests).Error; err != nil {
		return nil, err
	}
	return interests, nil
}

func (r *interestRepository) UpdateInterestStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Interest{}).
		Where("id = ?", id).
		Update("status", status).Error
}
