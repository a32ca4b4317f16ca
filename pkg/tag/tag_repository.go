package tag

import (
	"context"

	"gorm.io/gorm"

	"foodshare/entities"
)

type (
	TagRepository interface {
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		GetTagByID(ctx context.Context, id string) (*entities.Tag, error)
		CountTagsByIDs(ctx context.Context, ids []string) (int64, error)
	}

	tagRepository struct {
		db *gorm.DB
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetTagByID(ctx context.Context, id string) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) CountTagsByIDs(ctx context.Context, ids []string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
