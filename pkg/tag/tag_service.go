package tag

import (
	"annam-mithra-backend/domain"
	"annam-mithra-backend/entities"
	"annam-mithra-backend/pkg/geo"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationThreshold is the quorum of distinct verifiers that promotes a
// tag from Active to Verified.
const VerificationThreshold = 3

type (
	TagService interface {
		CreateTag(ctx context.Context, req domain.CreateTagRequest, reporterUID string) (*domain.Tag, error)
		NearbyTags(ctx context.Context, req domain.NearbyTagsRequest) ([]*domain.Tag, error)
		VerifyTag(ctx context.Context, tagID string, verifierUID string) (*domain.Tag, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) CreateTag(ctx context.Context, req domain.CreateTagRequest, reporterUID string) (*domain.Tag, error) {
	tag := &entities.Tag{
		ID:              uuid.New(),
		ReporterUID:     reporterUID,
		Description:     req.Description,
		EstimatedPeople: req.EstimatedPeople,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Address:         req.Address,
		Status:          "Active",
	}

	if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return toTagDTO(tag), nil
}

func (s *tagService) NearbyTags(ctx context.Context, req domain.NearbyTagsRequest) ([]*domain.Tag, error) {
	tags, err := s.tagRepository.GetNearbyTags(ctx, req.Latitude, req.Longitude, req.Radius)
	if err != nil {
		return nil, err
	}

	origin := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	points := make([]geo.Coordinate, 0, len(tags))
	for _, tag := range tags {
		points = append(points, geo.Coordinate{Latitude: tag.Latitude, Longitude: tag.Longitude})
	}

	matches := geo.WithinRadius(origin, req.Radius, points)

	result := make([]*domain.Tag, 0, len(matches))
	for _, match := range matches {
		dto := toTagDTO(tags[match.Index])
		dto.Distance = match.Distance
		result = append(result, dto)
	}
	return result, nil
}

func (s *tagService) VerifyTag(ctx context.Context, tagID string, verifierUID string) (*domain.Tag, error) {
	tag, err := s.tagRepository.GetTagByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}

	inserted, err := s.tagRepository.AddVerification(ctx, &entities.TagVerification{
		TagID:       tag.ID,
		VerifierUID: verifierUID,
	})
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, domain.ErrTagAlreadyVerified
	}

	updated, err := s.tagRepository.IncrementVerificationCount(ctx, tagID)
	if err != nil {
		return nil, err
	}

	if updated.VerificationCount >= VerificationThreshold && updated.Status != "Verified" {
		if err := s.tagRepository.PromoteToVerified(ctx, tagID, VerificationThreshold); err != nil {
			return nil, err
		}
		updated.Status = "Verified"
	}

	return toTagDTO(updated), nil
}

func toTagDTO(tag *entities.Tag) *domain.Tag {
	return &domain.Tag{
		ID:                tag.ID.String(),
		ReporterUID:       tag.ReporterUID,
		Description:       tag.Description,
		EstimatedPeople:   tag.EstimatedPeople,
		Latitude:          tag.Latitude,
		Longitude:         tag.Longitude,
		Address:           tag.Address,
		VerificationCount: tag.VerificationCount,
		Status:            tag.Status,
		CreatedAt:         tag.CreatedAt,
	}
}
