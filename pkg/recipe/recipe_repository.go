package recipe

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodshare/domain"
	"foodshare/entities"
)

// ShoppingListRow is one aggregated ingredient from the cart join.
type ShoppingListRow struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int
}

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []string, items []*entities.RecipeIngredient) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []string, items []*entities.RecipeIngredient) error
		DeleteRecipe(ctx context.Context, id string) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]*entities.Recipe, int64, error)

		AddFavorite(ctx context.Context, userID, recipeID string) error
		RemoveFavorite(ctx context.Context, userID, recipeID string) (int64, error)
		IsFavorited(ctx context.Context, userID, recipeID string) (bool, error)

		AddCartItem(ctx context.Context, userID, recipeID string) error
		RemoveCartItem(ctx context.Context, userID, recipeID string) (int64, error)
		IsInCart(ctx context.Context, userID, recipeID string) (bool, error)

		GetShoppingList(ctx context.Context, userID string) ([]ShoppingListRow, error)

		GetOrCreateShortLink(ctx context.Context, recipeID uuid.UUID, hash string) (*entities.ShortLink, error)
		GetShortLinkByHash(ctx context.Context, hash string) (*entities.ShortLink, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []string, items []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}

		var tags []*entities.Tag
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}

		for _, item := range items {
			item.RecipeID = recipe.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []string, items []*entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}

		var tags []*entities.Tag
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}

		// Ingredient set is replaced wholesale, not merged.
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for _, item := range items {
			item.RecipeID = recipe.ID
		}
		return tx.Create(&items).Error
	})
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	// Edge rows (favorites, cart items, tags, ingredient amounts, short link)
	// go with the recipe through ON DELETE CASCADE.
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (filter.Page - 1) * filter.Limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if filter.AuthorID != "" {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.FavoritedOnly {
		favorited := r.db.Table("favorites").
			Select("favorites.recipe_id").
			Where("favorites.user_id = ?", viewerID)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.InCartOnly {
		inCart := r.db.Table("cart_items").
			Select("cart_items.recipe_id").
			Where("cart_items.user_id = ?", viewerID)
		query = query.Where("recipes.id IN (?)", inCart)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(filter.Limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func parsePair(userID, recipeID string) (uuid.UUID, uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userUUID, recipeUUID, nil
}

func (r *recipeRepository) AddFavorite(ctx context.Context, userID, recipeID string) error {
	userUUID, recipeUUID, err := parsePair(userID, recipeID)
	if err != nil {
		return err
	}

	favorite := entities.Favorite{
		ID:        uuid.New(),
		UserID:    userUUID,
		RecipeID:  recipeUUID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&favorite).Error
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) IsFavorited(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) AddCartItem(ctx context.Context, userID, recipeID string) error {
	userUUID, recipeUUID, err := parsePair(userID, recipeID)
	if err != nil {
		return err
	}

	item := entities.CartItem{
		ID:        uuid.New(),
		UserID:    userUUID,
		RecipeID:  recipeUUID,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(&item).Error
}

func (r *recipeRepository) RemoveCartItem(ctx context.Context, userID, recipeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) IsInCart(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.CartItem{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetShoppingList sums ingredient amounts across every recipe in the user's
// cart. A single statement keeps the result snapshot-consistent under
// concurrent cart edits.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID string) ([]ShoppingListRow, error) {
	var rows []ShoppingListRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT i.name, i.measurement_unit, SUM(ri.amount) AS total_amount
		FROM cart_items ci
		JOIN recipe_ingredients ri ON ri.recipe_id = ci.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ci.user_id = ?
		GROUP BY i.id, i.name, i.measurement_unit
		ORDER BY i.name ASC`, userID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recipeRepository) GetOrCreateShortLink(ctx context.Context, recipeID uuid.UUID, hash string) (*entities.ShortLink, error) {
	var link entities.ShortLink
	err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).First(&link).Error
	if err == nil {
		return &link, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	link = entities.ShortLink{
		ID:       uuid.New(),
		RecipeID: recipeID,
		Hash:     hash,
	}
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent request; reuse its row.
			if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).First(&link).Error; err != nil {
				return nil, err
			}
			return &link, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *recipeRepository) GetShortLinkByHash(ctx context.Context, hash string) (*entities.ShortLink, error) {
	var link entities.ShortLink
	if err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}
