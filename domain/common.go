package domain

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindForbidden  ErrorKind = "forbidden"
	KindConflict   ErrorKind = "conflict"
	KindUpstream   ErrorKind = "upstream"
)

// AppError carries a machine-readable kind alongside the human message so
// presenters can map business errors onto HTTP status codes.
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// StatusOf resolves the HTTP status for an error. Unrecognized errors fall
// back to 400, matching how handlers treated service errors before the
// taxonomy existed.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case KindNotFound:
			return fiber.StatusNotFound
		case KindForbidden:
			return fiber.StatusForbidden
		case KindConflict:
			return fiber.StatusConflict
		case KindUpstream:
			return fiber.StatusBadGateway
		}
	}
	return fiber.StatusBadRequest
}

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrTokenNotFound = NewForbiddenError("token not found")
	ErrTokenInvalid  = NewForbiddenError("token invalid")
	ErrTokenExpired  = NewForbiddenError("token expired")
)
