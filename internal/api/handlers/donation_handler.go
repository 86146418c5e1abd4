package handlers

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/internal/api/presenters"
	"annam-mithra-backend/pkg/donation"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DonationHandler interface {
		SubmitDonation(c *fiber.Ctx) error
		GetMyDonations(c *fiber.Ctx) error
		GetNearbyDonations(c *fiber.Ctx) error
		AdjustQuantity(c *fiber.Ctx) error
		RemoveDonation(c *fiber.Ctx) error
	}

	donationHandler struct {
		donationService donation.DonationService
		validator       *validator.Validate
	}
)

func NewDonationHandler(donationService donation.DonationService, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		donationService: donationService,
		validator:       validator,
	}
}

func (h *donationHandler) SubmitDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.SubmitDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// Optional food image, covers the whole submission.
	req.Image, _ = c.FormFile("image")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	donations, err := h.donationService.Submit(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": donations,
	}, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

func (h *donationHandler) GetMyDonations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	donations, err := h.donationService.ListActive(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": donations,
	}, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) GetNearbyDonations(c *fiber.Ctx) error {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidCoordinates)
	}

	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, domain.ErrInvalidCoordinates)
	}

	radius, err := strconv.ParseFloat(c.Query("radius", "10"), 64)
	if err != nil || radius <= 0 || radius > 50 {
		radius = 10 // Default radius
	}

	req := domain.NearbyDonationsRequest{
		Latitude:         lat,
		Longitude:        lng,
		Radius:           radius,
		FoodType:         c.Query("food_type"),
		ReceiverCategory: c.Query("receiver_category"),
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetNearbyDonations, err)
	}

	donations, err := h.donationService.Nearby(c.Context(), req)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetNearbyDonations, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"donations": donations,
	}, fiber.StatusOK, domain.MessageSuccessGetNearbyDonations)
}

func (h *donationHandler) AdjustQuantity(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	if donationID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDonation, domain.ErrDonationNotFound)
	}

	req := new(domain.AdjustQuantityRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDonation, err)
	}

	updated, err := h.donationService.AdjustQuantity(c.Context(), donationID, req.Quantity, userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedUpdateDonation, err)
	}

	return presenters.SuccessResponse(c, updated, fiber.StatusOK, domain.MessageSuccessUpdateDonation)
}

func (h *donationHandler) RemoveDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	donationID := c.Params("id")

	if donationID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteDonation, domain.ErrDonationNotFound)
	}

	if err := h.donationService.Remove(c.Context(), donationID, userID); err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedDeleteDonation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteDonation)
}
