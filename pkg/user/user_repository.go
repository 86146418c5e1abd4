package user

import (
	"annam-mithra-backend/entities"
	"context"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	UserRepository interface {
		UpsertUser(ctx context.Context, user *entities.User, roles []string) error
		GetUserByUID(ctx context.Context, uid string) (*entities.User, error)
		UpdateDeviceToken(ctx context.Context, uid string, token string) error
		GetReceiversNear(ctx context.Context, lat, lng float64, radius float64) ([]*entities.User, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) UpsertUser(ctx context.Context, user *entities.User, roles []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			UpdateAll: true,
		}).Create(user).Error; err != nil {
			return err
		}

		if err := tx.Where("user_uid = ?", user.UID).Delete(&entities.UserRole{}).Error; err != nil {
			return err
		}
		for _, role := range roles {
			if err := tx.Create(&entities.UserRole{UserUID: user.UID, Role: role}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *userRepository) GetUserByUID(ctx context.Context, uid string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("uid = ?", uid).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateDeviceToken(ctx context.Context, uid string, token string) error {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("uid = ?", uid).
		Update("device_token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) GetReceiversNear(ctx context.Context, lat, lng float64, radius float64) ([]*entities.User, error) {
	var users []*entities.User

	// Using PostgreSQL's earthdistance extension for location-based queries
	// Make sure you've installed the extension with:
	// CREATE EXTENSION IF NOT EXISTS "earthdistance" CASCADE;
	// CREATE EXTENSION IF NOT EXISTS "cube";
	query := `
		SELECT users.*
		FROM users
		JOIN user_roles ON user_roles.user_uid = users.uid AND user_roles.role = 'Receiver'
		WHERE earth_box(ll_to_earth(?, ?), ?) @> ll_to_earth(users.latitude, users.longitude)
	`

	// radius in km, convert to meters for the query
	radiusMeters := radius * 1000

	if err := r.db.WithContext(ctx).Raw(query, lat, lng, radiusMeters).Scan(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}
