package tag

import (
	"annam-mithra-backend/entities"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	TagRepository interface {
		CreateTag(ctx context.Context, tag *entities.Tag) error
		GetTagByID(ctx context.Context, id string) (*entities.Tag, error)
		GetNearbyTags(ctx context.Context, lat, lng float64, radius float64) ([]*entities.Tag, error)
		AddVerification(ctx context.Context, verification *entities.TagVerification) (bool, error)
		IncrementVerificationCount(ctx context.Context, id string) (*entities.Tag, error)
		PromoteToVerified(ctx context.Context, id string, threshold int) error
	}

	tagRepository struct {
		db *gorm.DB
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) CreateTag(ctx context.Context, tag *entities.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) GetTagByID(ctx context.Context, id string) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetNearbyTags(ctx context.Context, lat, lng float64, radius float64) ([]*entities.Tag, error) {
	var tags []*entities.Tag

	// Same earthdistance prefilter the donation queries use.
	query := `
		SELECT *
		FROM tags
		WHERE earth_box(ll_to_earth(?, ?), ?) @> ll_to_earth(latitude, longitude)
		ORDER BY created_at DESC
	`

	radiusMeters := radius * 1000

	if err := r.db.WithContext(ctx).Raw(query, lat, lng, radiusMeters).Scan(&tags).Error; err != nil {
		return nil, err
	}

	return tags, nil
}

// AddVerification inserts the (tag, verifier) pair. Returns false when this
// verifier already verified the tag.
func (r *tagRepository) AddVerification(ctx context.Context, verification *entities.TagVerification) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(verification)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *tagRepository) IncrementVerificationCount(ctx context.Context, id string) (*entities.Tag, error) {
	if err := r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Where("id = ?", id).
		Update("verification_count", gorm.Expr("verification_count + 1")).Error; err != nil {
		return nil, err
	}

	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) PromoteToVerified(ctx context.Context, id string, threshold int) error {
	return r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Where("id = ? AND verification_count >= ?", id, threshold).
		Update("status", "Verified").Error
}
