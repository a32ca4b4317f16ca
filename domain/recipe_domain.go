package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessAddToCart       = "recipe added to shopping cart"
	MessageSuccessGetShortLink    = "success get short link"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"
	MessageFailedAddToCart       = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart  = "failed to remove recipe from shopping cart"
	MessageFailedShoppingList    = "failed to build shopping list"
	MessageFailedGetShortLink    = "failed to get short link"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrNotRecipeAuthor     = errors.New("only the author may modify this recipe")
	ErrDuplicateIngredient = errors.New("ingredients must not repeat within a recipe")
	ErrUnknownIngredient   = errors.New("recipe references an unknown ingredient")
	ErrUnknownTag          = errors.New("recipe references an unknown tag")
	ErrAlreadyFavorited    = errors.New("recipe is already in favorites")
	ErrNotFavorited        = errors.New("recipe is not in favorites")
	ErrAlreadyInCart       = errors.New("recipe is already in the shopping cart")
	ErrNotInCart           = errors.New("recipe is not in the shopping cart")
)

type (
	IngredientAmountRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,gt=0,lte=32000"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=256"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,gt=0,lte=32000"`
		Image       string                    `json:"image" validate:"required"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	UpdateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=256"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,gt=0,lte=32000"`
		Image       string                    `json:"image,omitempty"`
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	// RecipeFilter carries the composable list predicates. The favorites and
	// cart predicates only apply for an authenticated caller.
	RecipeFilter struct {
		AuthorID       string
		TagSlugs       []string
		FavoritedOnly  bool
		InCartOnly     bool
		Page           int
		Limit          int
	}

	IngredientAmountResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []IngredientAmountResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image,omitempty"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	RecipeShortResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	// ShoppingListItem is one aggregated row of the downloadable list.
	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int    `json:"total_amount"`
	}
)
