package handlers

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/internal/api/presenters"
	"annam-mithra-backend/pkg/interest"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	InterestHandler interface {
		RequestInterest(c *fiber.Ctx) error
		AcceptInterest(c *fiber.Ctx) error
		DeclineInterest(c *fiber.Ctx) error
		GetReceivedInterests(c *fiber.Ctx) error
		GetSentInterests(c *fiber.Ctx) error
	}

	interestHandler struct {
		interestService interest.InterestService
		validator       *validator.Validate
	}
)

func NewInterestHandler(interestService interest.InterestService, validator *validator.Validate) InterestHandler {
	return &interestHandler{
		interestService: interestService,
		validator:       validator,
	}
}

func (h *interestHandler) RequestInterest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateInterestRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateInterest, err)
	}

	created, err := h.interestService.RequestInterest(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedCreateInterest, err)
	}

	return presenters.SuccessResponse(c, created, fiber.StatusCreated, domain.MessageSuccessCreateInterest)
}

func (h *interestHandler) AcceptInterest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.AcceptInterestRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAcceptInterest, err)
	}

	accepted, err := h.interestService.AcceptInterest(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedAcceptInterest, err)
	}

	return presenters.SuccessResponse(c, accepted, fiber.StatusOK, domain.MessageSuccessAcceptInterest)
}

func (h *interestHandler) DeclineInterest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.DeclineInterestRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeclineInterest, err)
	}

	if err := h.interestService.DeclineInterest(c.Context(), *req, userID); err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedDeclineInterest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeclineInterest)
}

func (h *interestHandler) GetReceivedInterests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	interests, err := h.interestService.ListReceived(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetInterests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"interests": interests,
	}, fiber.StatusOK, domain.MessageSuccessGetInterests)
}

func (h *interestHandler) GetSentInterests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	interests, err := h.interestService.ListSent(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetInterests, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"interests": interests,
	}, fiber.StatusOK, domain.MessageSuccessGetInterests)
}
