package donation

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"context"
	"errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// DonationMutator is the slice of mutations available inside
	// WithDonationLock. It also covers the donation's interest rows, so an
	// accept can flip the interest in the same transaction as the quantity
	// change. Callers never hand-roll their own locking.
	DonationMutator interface {
		UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error
		UpdateStatus(ctx context.Context, id string, status string) error
		DecrementRemaining(ctx context.Context, id string, quantity int) error
		UpdateInterestStatus(ctx context.Context, interestID string, status string) error
	}

	DonationRepository interface {
		CreateDonation(ctx context.Context, donation *entities.Donation) error
		GetDonationByID(ctx context.Context, id string) (*entities.Donation, error)
		GetActiveDonations(ctx context.Context, donorUID string) ([]*entities.Donation, error)
		GetNearbyActive(ctx context.Context, lat, lng float64, radius float64) ([]*entities.Donation, error)
		UpdateDonationStatus(ctx context.Context, id string, status string) error
		WithDonationLock(ctx context.Context, id string, fn func(m DonationMutator, d *entities.Donation) error) error
	}

	donationRepository struct {
		db *gorm.DB
	}

	donationMutator struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Donor").
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) GetActiveDonations(ctx context.Context, donorUID string) ([]*entities.Donation, error) {
	var donations []*entities.Donation

	query := r.db.WithContext(ctx).
		Where("status IN ?", []string{"Active", "PartiallyAccepted"})
	if donorUID != "" {
		query = query.Where("donor_uid = ?", donorUID)
	}

	if err := query.
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}

	return donations, nil
}

func (r *donationRepository) GetNearbyActive(ctx context.Context, lat, lng float64, radius float64) ([]*entities.Donation, error) {
	var donations []*entities.Donation

	// Using PostgreSQL's earthdistance extension as a coarse prefilter;
	// the service recomputes exact Haversine distances afterwards.
	// Make sure you've installed the extension with:
	// CREATE EXTENSION IF NOT EXISTS "earthdistance" CASCADE;
	// CREATE EXTENSION IF NOT EXISTS "cube";
	query := `
		SELECT *
		FROM donations
		WHERE earth_box(ll_to_earth(?, ?), ?) @> ll_to_earth(latitude, longitude)
		  AND status IN ('Active', 'PartiallyAccepted')
		  AND expires_at > NOW()
		ORDER BY created_at DESC
	`

	// radius in km, convert to meters for the query
	radiusMeters := radius * 1000

	if err := r.db.WithContext(ctx).Raw(query, lat, lng, radiusMeters).Scan(&donations).Error; err != nil {
		return nil, err
	}

	return donations, nil
}

func (r *donationRepository) UpdateDonationStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// WithDonationLock serializes mutations against one donation using a
// row-level lock, so concurrent accepts cannot drive the remaining quantity
// negative.
func (r *donationRepository) WithDonationLock(ctx context.Context, id string, fn func(m DonationMutator, d *entities.Donation) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var donation entities.Donation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&donation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDonationNotFound
			}
			return err
		}
		return fn(&donationMutator{db: tx}, &donation)
	})
}

func (m *donationMutator) UpdateFields(ctx context.Context, id string, updates map[string]interface{}) error {
	return m.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (m *donationMutator) UpdateStatus(ctx context.Context, id string, status string) error {
	return m.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (m *donationMutator) UpdateInterestStatus(ctx context.Context, interestID string, status string) error {
	return m.db.WithContext(ctx).
		Model(&entities.Interest{}).
		Where("id = ?", interestID).
		Update("status", status).Error
}

func (m *donationMutator) DecrementRemaining(ctx context.Context, id string, quantity int) error {
	res := m.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ? AND remaining_quantity >= ?", id, quantity).
		Update("remaining_quantity", gorm.Expr("remaining_quantity - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrQuantityConflict
	}
	return nil
}
