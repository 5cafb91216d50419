package tag

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTag(ctx context.Context, id string) (*domain.TagResponse, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func ToResponse(t entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    t.ID.String(),
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.TagResponse, 0, len(tags))
	for _, t := range tags {
		res = append(res, ToResponse(t))
	}
	return res, nil
}

func (s *tagService) GetTag(ctx context.Context, id string) (*domain.TagResponse, error) {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrTagNotFound
	}

	t, err := s.tagRepository.GetTagByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTagNotFound
	}

	res := ToResponse(*t)
	return &res, nil
}
