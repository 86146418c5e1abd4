package domain

import (
	"time"
)

var (
	MessageSuccessCreateTag = "tag created successfully"
	MessageSuccessGetTags   = "tags retrieved successfully"
	MessageSuccessVerifyTag = "tag verified successfully"
	MessageFailedCreateTag  = "failed to create tag"
	MessageFailedGetTags    = "failed to retrieve tags"
	MessageFailedVerifyTag  = "failed to verify tag"

	ErrTagNotFound        = NewNotFoundError("tag not found")
	ErrTagAlreadyVerified = NewConflictError("tag already verified by this user")
)

type (
	CreateTagRequest struct {
		Description     string  `json:"description" validate:"required"`
		EstimatedPeople int     `json:"estimated_people" validate:"required,min=1"`
		Latitude        float64 `json:"latitude" validate:"required"`
		Longitude       float64 `json:"longitude" validate:"required"`
		Address         string  `json:"address" validate:"omitempty"`
	}

	NearbyTagsRequest struct {
		Latitude  float64 `json:"latitude" validate:"required"`
		Longitude float64 `json:"longitude" validate:"required"`
		Radius    float64 `json:"radius" validate:"required,min=0,max=50"`
	}

	Tag struct {
		ID                string    `json:"id"`
		ReporterUID       string    `json:"reporter_uid"`
		Description       string    `json:"description"`
		EstimatedPeople   int       `json:"estimated_people"`
		Latitude          float64   `json:"latitude"`
		Longitude         float64   `json:"longitude"`
		Address           string    `json:"address,omitempty"`
		VerificationCount int       `json:"verification_count"`
		Status            string    `json:"status"`
		Distance          float64   `json:"distance,omitempty"`
		CreatedAt         time.Time `json:"created_at"`
	}
)
