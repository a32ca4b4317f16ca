package subscription

import (
	"context"

	"gorm.io/gorm"

	"foodshare/entities"
)

type (
	SubscriptionRepository interface {
		CreateSubscription(ctx context.Context, sub *entities.Subscription) error
		DeleteSubscription(ctx context.Context, followerID, authorID string) (int64, error)
		GetSubscribedAuthors(ctx context.Context, followerID string, page, limit int) ([]*entities.User, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error)
		CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error)
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreateSubscription(ctx context.Context, sub *entities.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) DeleteSubscription(ctx context.Context, followerID, authorID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&entities.Subscription{})
	return res.RowsAffected, res.Error
}

func (r *subscriptionRepository) GetSubscribedAuthors(ctx context.Context, followerID string, page, limit int) ([]*entities.User, int64, error) {
	var authors []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Joins("JOIN subscriptions ON users.id = subscriptions.author_id").
		Where("subscriptions.follower_id = ?", followerID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON users.id = subscriptions.author_id").
		Where("subscriptions.follower_id = ?", followerID).
		Offset(offset).
		Limit(limit).
		Order("subscriptions.created_at desc").
		Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	return authors, count, nil
}

func (r *subscriptionRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *subscriptionRepository) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
