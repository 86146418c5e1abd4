package domain

import (
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCreateDonation     = "donation created successfully"
	MessageSuccessGetDonations       = "donations retrieved successfully"
	MessageSuccessGetNearbyDonations = "nearby donations retrieved successfully"
	MessageSuccessUpdateDonation     = "donation updated successfully"
	MessageSuccessDeleteDonation     = "donation removed successfully"

	MessageFailedCreateDonation     = "failed to create donation"
	MessageFailedGetDonations       = "failed to retrieve donations"
	MessageFailedGetNearbyDonations = "failed to retrieve nearby donations"
	MessageFailedUpdateDonation     = "failed to update donation"
	MessageFailedDeleteDonation     = "failed to remove donation"

	ErrDonationNotFound           = NewNotFoundError("donation not found")
	ErrUnknownDonor               = NewValidationError("donor profile not found")
	ErrUnauthorizedDonationAccess = NewForbiddenError("unauthorized access to donation")
	ErrInvalidCoordinates         = NewValidationError("invalid coordinates")
	ErrNoDonationItems            = NewValidationError("donation must contain at least one item")
	ErrInvalidQuantity            = NewValidationError("quantity must be a positive number")
	ErrQuantityConflict           = NewConflictError("remaining quantity is insufficient")
)

type (
	DonationItemRequest struct {
		DishName string `json:"dish_name" validate:"required"`
		// Quantity arrives as free text from the clients ("5", "2 plates").
		Quantity string `json:"quantity"`
	}

	SubmitDonationRequest struct {
		Items              []DonationItemRequest `json:"items" validate:"required,min=1,dive"`
		FoodType           string                `json:"food_type" validate:"required,oneof=Veg NonVeg"`
		TargetReceiverType string                `json:"target_receiver_type" validate:"required,oneof=Individual NGO Both"`
		Description        string                `json:"description" validate:"omitempty"`
		Latitude           float64               `json:"latitude" validate:"required"`
		Longitude          float64               `json:"longitude" validate:"required"`
		Address            string                `json:"address" validate:"required"`
		ContactPhone       string                `json:"contact_phone" validate:"required"`
		Image              *multipart.FileHeader `json:"-" form:"image"`
	}

	NearbyDonationsRequest struct {
		Latitude         float64 `json:"latitude" validate:"required"`
		Longitude        float64 `json:"longitude" validate:"required"`
		Radius           float64 `json:"radius" validate:"required,min=0,max=50"`
		FoodType         string  `json:"food_type" validate:"omitempty,oneof=Veg NonVeg Both"`
		ReceiverCategory string  `json:"receiver_category" validate:"omitempty,oneof=Individual NGO Charity Ashram Bulk"`
	}

	AdjustQuantityRequest struct {
		Quantity int `json:"quantity" validate:"required,min=1"`
	}

	Donation struct {
		ID                 string    `json:"id"`
		DonorUID           string    `json:"donor_uid"`
		DonorName          string    `json:"donor_name,omitempty"`
		FoodName           string    `json:"food_name"`
		Quantity           int       `json:"quantity"`
		RemainingQuantity  int       `json:"remaining_quantity"`
		FoodType           string    `json:"food_type"`
		Description        string    `json:"description,omitempty"`
		ImageURL           string    `json:"image_url,omitempty"`
		Latitude           float64   `json:"latitude"`
		Longitude          float64   `json:"longitude"`
		Address            string    `json:"address"`
		ContactPhone       string    `json:"contact_phone"`
		TargetReceiverType string    `json:"target_receiver_type"`
		Status             string    `json:"status"`
		Distance           float64   `json:"distance,omitempty"` // km, only set on nearby results
		ExpiresAt          time.Time `json:"expires_at"`
		CreatedAt          time.Time `json:"created_at"`
	}
)
