package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodshare/domain"
	"foodshare/entities"
	"foodshare/internal/utils"
	"foodshare/internal/utils/storage"
	"foodshare/pkg/ingredient"
	"foodshare/pkg/tag"
	"foodshare/pkg/user"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]domain.RecipeResponse, int64, error)
		GetRecipeByID(ctx context.Context, id, viewerID string) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id, userID string) error

		AddFavorite(ctx context.Context, recipeID, userID string) (domain.RecipeShortResponse, error)
		RemoveFavorite(ctx context.Context, recipeID, userID string) error
		AddToCart(ctx context.Context, recipeID, userID string) (domain.RecipeShortResponse, error)
		RemoveFromCart(ctx context.Context, recipeID, userID string) error

		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
		GetShortLink(ctx context.Context, recipeID string) (string, error)
		ResolveShortLink(ctx context.Context, hash string) (string, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		userRepository       user.UserRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	userRepository user.UserRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		userRepository:       userRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		s3:                   s3,
	}
}

func toShortResponse(r *entities.Recipe) domain.RecipeShortResponse {
	return domain.RecipeShortResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

func (s *recipeService) toResponse(ctx context.Context, r *entities.Recipe, viewerID string) domain.RecipeResponse {
	tags := make([]domain.TagResponse, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, tag.ToTagResponse(t))
	}

	ingredients := make([]domain.IngredientAmountResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		item := domain.IngredientAmountResponse{
			ID:     ri.IngredientID.String(),
			Amount: ri.Amount,
		}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	author := domain.UserResponse{}
	if r.Author != nil {
		isSubscribed := false
		if viewerID != "" && viewerID != r.AuthorID.String() {
			isSubscribed, _ = s.userRepository.IsSubscribed(ctx, viewerID, r.AuthorID.String())
		}
		author = user.ToUserResponse(r.Author, isSubscribed)
	}

	isFavorited, isInCart := false, false
	if viewerID != "" {
		isFavorited, _ = s.recipeRepository.IsFavorited(ctx, viewerID, r.ID.String())
		isInCart, _ = s.recipeRepository.IsInCart(ctx, viewerID, r.ID.String())
	}

	return domain.RecipeResponse{
		ID:               r.ID.String(),
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		CreatedAt:        r.CreatedAt,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]domain.RecipeResponse, int64, error) {
	if (filter.FavoritedOnly || filter.InCartOnly) && viewerID == "" {
		return nil, 0, domain.ErrAuthenticationRequired
	}

	if filter.Page < 1 {
		filter.Page = domain.DefaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = domain.DefaultPageSize
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		result = append(result, s.toResponse(ctx, r, viewerID))
	}
	return result, count, nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.toResponse(ctx, recipe, viewerID), nil
}

// validateComposition checks the referenced tag and ingredient sets:
// non-empty, no repeated ingredient, every id present in the catalog.
func (s *recipeService) validateComposition(ctx context.Context, tagIDs []string, items []domain.IngredientAmountRequest) ([]*entities.RecipeIngredient, error) {
	seen := make(map[string]bool, len(items))
	ingredientIDs := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item.ID] {
			return nil, domain.ErrDuplicateIngredient
		}
		seen[item.ID] = true
		ingredientIDs = append(ingredientIDs, item.ID)
	}

	ingredientCount, err := s.ingredientRepository.CountIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	if ingredientCount != int64(len(ingredientIDs)) {
		return nil, domain.ErrUnknownIngredient
	}

	tagCount, err := s.tagRepository.CountTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if tagCount != int64(len(tagIDs)) {
		return nil, domain.ErrUnknownTag
	}

	rows := make([]*entities.RecipeIngredient, 0, len(items))
	for _, item := range items {
		ingredientUUID, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		rows = append(rows, &entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: ingredientUUID,
			Amount:       item.Amount,
		})
	}
	return rows, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	rows, err := s.validateComposition(ctx, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	data, contentType, err := utils.DecodeBase64Image(req.Image)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrInvalidImageEncoding
	}

	recipeID := uuid.New()
	objectKey, err := s.s3.UploadFile(recipeID.String(), data, contentType, "recipes", storage.AllowImage...)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    authorUUID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    s.s3.GetPublicLinkKey(objectKey),
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, req.Tags, rows); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeByID(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	rows, err := s.validateComposition(ctx, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	// A new image goes to a fresh key; the previous object is removed only
	// after the row is committed, so a failed update leaves the old image
	// intact.
	var newObjectKey, oldImageURL string
	if req.Image != "" {
		data, contentType, err := utils.DecodeBase64Image(req.Image)
		if err != nil {
			return domain.RecipeResponse{}, domain.ErrInvalidImageEncoding
		}

		newObjectKey, err = s.s3.UploadFile(recipe.ID.String(), data, contentType, "recipes", storage.AllowImage...)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		oldImageURL = recipe.ImageURL
		recipe.ImageURL = s.s3.GetPublicLinkKey(newObjectKey)
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.Tags = nil
	recipe.Ingredients = nil

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, req.Tags, rows); err != nil {
		if newObjectKey != "" {
			_ = s.s3.DeleteFile(newObjectKey)
		}
		return domain.RecipeResponse{}, err
	}

	if oldImageURL != "" {
		if oldKey := s.s3.GetObjectKeyFromLink(oldImageURL); oldKey != "" {
			_ = s.s3.DeleteFile(oldKey)
		}
	}

	return s.GetRecipeByID(ctx, id, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return err
	}

	if recipe.ImageURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID, userID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeShortResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeShortResponse{}, err
	}

	if err := s.recipeRepository.AddFavorite(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyFavorited
		}
		return domain.RecipeShortResponse{}, err
	}
	return toShortResponse(recipe), nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID, userID string) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	deleted, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFavorited
	}
	return nil
}

func (s *recipeService) AddToCart(ctx context.Context, recipeID, userID string) (domain.RecipeShortResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeShortResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeShortResponse{}, err
	}

	if err := s.recipeRepository.AddCartItem(ctx, userID, recipeID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShortResponse{}, domain.ErrAlreadyInCart
		}
		return domain.RecipeShortResponse{}, err
	}
	return toShortResponse(recipe), nil
}

func (s *recipeService) RemoveFromCart(ctx context.Context, recipeID, userID string) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	deleted, err := s.recipeRepository.RemoveCartItem(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotInCart
	}
	return nil
}

func (s *recipeService) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	rows, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ShoppingListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.ShoppingListItem{
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			TotalAmount:     row.TotalAmount,
		})
	}
	return items, nil
}

func (s *recipeService) GetShortLink(ctx context.Context, recipeID string) (string, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrRecipeNotFound
		}
		return "", err
	}

	link, err := s.recipeRepository.GetOrCreateShortLink(ctx, recipe.ID, ShortLinkHash(recipe.ID.String()))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/s/%s", utils.GetConfig("APP_URL"), link.Hash), nil
}

func (s *recipeService) ResolveShortLink(ctx context.Context, hash string) (string, error) {
	link, err := s.recipeRepository.GetShortLinkByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrRecipeNotFound
		}
		return "", err
	}
	return link.RecipeID.String(), nil
}
