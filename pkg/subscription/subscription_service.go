package subscription

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodshare/domain"
	"foodshare/entities"
	"foodshare/pkg/user"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, followerID, authorID string, recipesLimit int) (domain.UserWithRecipesResponse, error)
		Unsubscribe(ctx context.Context, followerID, authorID string) error
		GetSubscriptions(ctx context.Context, followerID string, page, limit, recipesLimit int) ([]domain.UserWithRecipesResponse, int64, error)
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
	}
)

func NewSubscriptionService(subscriptionRepository SubscriptionRepository, userRepository user.UserRepository) SubscriptionService {
	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
	}
}

func (s *subscriptionService) authorWithRecipes(ctx context.Context, author *entities.User, recipesLimit int) (domain.UserWithRecipesResponse, error) {
	recipes, err := s.subscriptionRepository.GetRecipesByAuthor(ctx, author.ID.String(), recipesLimit)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}
	count, err := s.subscriptionRepository.CountRecipesByAuthor(ctx, author.ID.String())
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}

	shorts := make([]domain.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		shorts = append(shorts, domain.RecipeShortResponse{
			ID:          r.ID.String(),
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return domain.UserWithRecipesResponse{
		UserResponse: user.ToUserResponse(author, true),
		Recipes:      shorts,
		RecipesCount: int(count),
	}, nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, followerID, authorID string, recipesLimit int) (domain.UserWithRecipesResponse, error) {
	followerUUID, err := uuid.Parse(followerID)
	if err != nil {
		return domain.UserWithRecipesResponse{}, domain.ErrParseUUID
	}
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.UserWithRecipesResponse{}, domain.ErrParseUUID
	}

	if followerID == authorID {
		return domain.UserWithRecipesResponse{}, domain.ErrSelfSubscription
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserWithRecipesResponse{}, domain.ErrUserNotFound
		}
		return domain.UserWithRecipesResponse{}, err
	}

	sub := &entities.Subscription{
		FollowerID: followerUUID,
		AuthorID:   authorUUID,
	}
	if err := s.subscriptionRepository.CreateSubscription(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserWithRecipesResponse{}, domain.ErrAlreadySubscribed
		}
		return domain.UserWithRecipesResponse{}, err
	}

	return s.authorWithRecipes(ctx, author, recipesLimit)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, followerID, authorID string) error {
	if followerID == authorID {
		return domain.ErrSelfSubscription
	}

	if _, err := s.userRepository.GetUserByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	deleted, err := s.subscriptionRepository.DeleteSubscription(ctx, followerID, authorID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotSubscribed
	}
	return nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, followerID string, page, limit, recipesLimit int) ([]domain.UserWithRecipesResponse, int64, error) {
	authors, count, err := s.subscriptionRepository.GetSubscribedAuthors(ctx, followerID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.UserWithRecipesResponse, 0, len(authors))
	for _, author := range authors {
		card, err := s.authorWithRecipes(ctx, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, card)
	}

	return result, count, nil
}
