package domain

import (
	"time"
)

var (
	MessageSuccessCreateInterest  = "interest submitted successfully"
	MessageSuccessGetInterests    = "interests retrieved successfully"
	MessageSuccessAcceptInterest  = "interest accepted successfully"
	MessageSuccessDeclineInterest = "interest declined successfully"

	MessageFailedCreateInterest  = "failed to submit interest"
	MessageFailedGetInterests    = "failed to retrieve interests"
	MessageFailedAcceptInterest  = "failed to accept interest"
	MessageFailedDeclineInterest = "failed to decline interest"

	ErrInterestNotFound      = NewNotFoundError("interest not found")
	ErrDuplicateInterest     = NewConflictError("a pending interest for this donation already exists")
	ErrInterestAlreadyClosed = NewConflictError("interest has already been resolved")
	ErrDonationNotActive     = NewConflictError("donation is no longer active")
	ErrOwnInterest           = NewValidationError("cannot request interest in your own donation")
	ErrInterestMismatch      = NewValidationError("interest does not belong to this donation")
	ErrInvalidAcceptAction   = NewValidationError("action must be keep or remove")
)

type (
	CreateInterestRequest struct {
		DonationID string `json:"donation_id" validate:"required,uuid"`
		Message    string `json:"message" validate:"omitempty,max=500"`
	}

	// UpdatedDonationFields carries the donor's optional listing edit made
	// while accepting with action keep.
	UpdatedDonationFields struct {
		FoodName    string `json:"food_name" validate:"omitempty"`
		Quantity    int    `json:"quantity" validate:"omitempty,min=1"`
		Description string `json:"description" validate:"omitempty"`
	}

	AcceptInterestRequest struct {
		InterestID    string                 `json:"interest_id" validate:"required,uuid"`
		DonationID    string                 `json:"donation_id" validate:"required,uuid"`
		Action        string                 `json:"action" validate:"required,oneof=keep remove"`
		UpdatedFields *UpdatedDonationFields `json:"updated_fields,omitempty"`
	}

	DeclineInterestRequest struct {
		InterestID string `json:"interest_id" validate:"required,uuid"`
	}

	Interest struct {
		ID                string    `json:"id"`
		DonationID        string    `json:"donation_id"`
		ReceiverUID       string    `json:"receiver_uid"`
		ReceiverName      string    `json:"receiver_name,omitempty"`
		Message           string    `json:"message,omitempty"`
		QuantityRequested int       `json:"quantity_requested"`
		Status            string    `json:"status"`
		Donation          *Donation `json:"donation,omitempty"`
		CreatedAt         time.Time `json:"created_at"`
	}
)
