package handlers

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/internal/api/presenters"
	"annam-mithra-backend/pkg/badge"
	"annam-mithra-backend/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		UpdateProfile(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		RegisterDeviceToken(c *fiber.Ctx) error
		GetBadges(c *fiber.Ctx) error
	}

	userHandler struct {
		userService  user.UserService
		badgeService badge.BadgeService
		validator    *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, badgeService badge.BadgeService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService:  userService,
		badgeService: badgeService,
		validator:    validator,
	}
}

func (h *userHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	email, _ := c.Locals("email").(string)

	req := new(domain.UpdateProfileRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateProfile, err)
	}

	profile, err := h.userService.UpdateProfile(c.Context(), *req, userID, email)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedUpdateProfile, err)
	}

	return presenters.SuccessResponse(c, profile, fiber.StatusOK, domain.MessageSuccessUpdateProfile)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	profile, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetProfile, err)
	}

	return presenters.SuccessResponse(c, profile, fiber.StatusOK, domain.MessageSuccessGetProfile)
}

func (h *userHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.RegisterDeviceTokenRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterToken, err)
	}

	if err := h.userService.RegisterDeviceToken(c.Context(), userID, req.DeviceToken); err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedRegisterToken, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRegisterToken)
}

func (h *userHandler) GetBadges(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	badges, err := h.badgeService.ListBadges(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetBadges, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"badges": badges,
	}, fiber.StatusOK, domain.MessageSuccessGetBadges)
}
