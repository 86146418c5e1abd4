package user

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"context"
	"errors"
	"gorm.io/gorm"
)

type (
	UserService interface {
		UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, uid string, email string) (*domain.UserProfile, error)
		Me(ctx context.Context, uid string) (*domain.UserProfile, error)
		RegisterDeviceToken(ctx context.Context, uid string, token string) error
	}

	userService struct {
		userRepository UserRepository
	}
)

func NewUserService(userRepository UserRepository) UserService {
	return &userService{userRepository: userRepository}
}

func (s *userService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, uid string, email string) (*domain.UserProfile, error) {
	var receiverCategory *string
	if req.ReceiverCategory != "" {
		receiverCategory = &req.ReceiverCategory
	}

	user := &entities.User{
		UID:              uid,
		Name:             req.Name,
		Email:            email,
		Phone:            req.Phone,
		FoodPreference:   req.FoodPreference,
		ReceiverCategory: receiverCategory,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Address:          req.Address,
		ProfileComplete:  true,
	}

	if err := s.userRepository.UpsertUser(ctx, user, dedupeRoles(req.Roles)); err != nil {
		return nil, err
	}

	return s.Me(ctx, uid)
}

func (s *userService) Me(ctx context.Context, uid string) (*domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	roles := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roles = append(roles, role.Role)
	}

	receiverCategory := ""
	if user.ReceiverCategory != nil {
		receiverCategory = *user.ReceiverCategory
	}

	return &domain.UserProfile{
		UID:              user.UID,
		Name:             user.Name,
		Email:            user.Email,
		Phone:            user.Phone,
		FoodPreference:   user.FoodPreference,
		ReceiverCategory: receiverCategory,
		Roles:            roles,
		Latitude:         user.Latitude,
		Longitude:        user.Longitude,
		Address:          user.Address,
		ProfileComplete:  user.ProfileComplete,
		CreatedAt:        user.CreatedAt,
	}, nil
}

func (s *userService) RegisterDeviceToken(ctx context.Context, uid string, token string) error {
	if err := s.userRepository.UpdateDeviceToken(ctx, uid, token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

// dedupeRoles keeps roles as a set, preserving first-seen order.
func dedupeRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	result := make([]string, 0, len(roles))
	for _, role := range roles {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		result = append(result, role)
	}
	return result
}
