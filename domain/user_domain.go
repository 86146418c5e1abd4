package domain

import (
	"time"
)

var (
	MessageSuccessUpdateProfile = "profile updated successfully"
	MessageSuccessGetProfile    = "profile retrieved successfully"
	MessageSuccessRegisterToken = "device token registered successfully"
	MessageSuccessGetBadges     = "badges retrieved successfully"
	MessageFailedUpdateProfile  = "failed to update profile"
	MessageFailedGetProfile     = "failed to retrieve profile"
	MessageFailedRegisterToken  = "failed to register device token"
	MessageFailedGetBadges      = "failed to retrieve badges"

	ErrUserNotFound         = NewNotFoundError("user not found")
	ErrInvalidFoodPref      = NewValidationError("invalid food preference")
	ErrInvalidReceiverGroup = NewValidationError("invalid receiver category")
)

type (
	UpdateProfileRequest struct {
		Name             string   `json:"name" validate:"required"`
		Phone            string   `json:"phone" validate:"required"`
		FoodPreference   string   `json:"food_preference" validate:"required,oneof=Veg NonVeg Both"`
		ReceiverCategory string   `json:"receiver_category" validate:"omitempty,oneof=Individual NGO Charity Ashram Bulk"`
		Roles            []string `json:"roles" validate:"required,min=1,dive,oneof=Donor Receiver Volunteer"`
		Latitude         float64  `json:"latitude" validate:"required"`
		Longitude        float64  `json:"longitude" validate:"required"`
		Address          string   `json:"address" validate:"required"`
	}

	RegisterDeviceTokenRequest struct {
		DeviceToken string `json:"device_token" validate:"required"`
	}

	UserProfile struct {
		UID              string    `json:"uid"`
		Name             string    `json:"name"`
		Email            string    `json:"email"`
		Phone            string    `json:"phone"`
		FoodPreference   string    `json:"food_preference"`
		ReceiverCategory string    `json:"receiver_category,omitempty"`
		Roles            []string  `json:"roles"`
		Latitude         float64   `json:"latitude"`
		Longitude        float64   `json:"longitude"`
		Address          string    `json:"address"`
		ProfileComplete  bool      `json:"profile_complete"`
		CreatedAt        time.Time `json:"created_at"`
	}

	Badge struct {
		Code      string    `json:"code"`
		Name      string    `json:"name"`
		AwardedAt time.Time `json:"awarded_at"`
	}
)
