package handlers

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/internal/api/presenters"
	"annam-mithra-backend/pkg/tag"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	TagHandler interface {
		CreateTag(c *fiber.Ctx) error
		GetNearbyTags(c *fiber.Ctx) error
		VerifyTag(c *fiber.Ctx) error
	}

	tagHandler struct {
		tagService tag.TagService
		validator  *validator.Validate
	}
)

func NewTagHandler(tagService tag.TagService, validator *validator.Validate) TagHandler {
	return &tagHandler{
		tagService: tagService,
		validator:  validator,
	}
}

func (h *tagHandler) CreateTag(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateTagRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateTag, err)
	}

	created, err := h.tagService.CreateTag(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedCreateTag, err)
	}

	return presenters.SuccessResponse(c, created, fiber.StatusCreated, domain.MessageSuccessCreateTag)
}

func (h *tagHandler) GetNearbyTags(c *fiber.Ctx) error {
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

	req := domain.NearbyTagsRequest{
		Latitude:  lat,
		Longitude: lng,
		Radius:    radius,
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetTags, err)
	}

	tags, err := h.tagService.NearbyTags(c.Context(), req)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedGetTags, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"tags": tags,
	}, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *tagHandler) VerifyTag(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tagID := c.Params("id")

	if tagID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedVerifyTag, domain.ErrTagNotFound)
	}

	verified, err := h.tagService.VerifyTag(c.Context(), tagID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, domain.StatusOf(err), domain.MessageFailedVerifyTag, err)
	}

	return presenters.SuccessResponse(c, verified, fiber.StatusOK, domain.MessageSuccessVerifyTag)
}
