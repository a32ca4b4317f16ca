package tag

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodshare/domain"
	"foodshare/entities"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTagByID(ctx context.Context, id string) (domain.TagResponse, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

// ToTagResponse maps a tag entity to its API shape.
func ToTagResponse(t *entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    t.ID.String(),
		Name:  t.Name,
		Slug:  t.Slug,
		Color: t.Color,
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.TagResponse, 0, len(tags))
	for _, t := range tags {
		result = append(result, ToTagResponse(t))
	}
	return result, nil
}

func (s *tagService) GetTagByID(ctx context.Context, id string) (domain.TagResponse, error) {
	t, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TagResponse{}, domain.ErrTagNotFound
		}
		return domain.TagResponse{}, err
	}
	return ToTagResponse(t), nil
}
