package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"foodshare/domain"
	"foodshare/internal/api/presenters"
	"foodshare/pkg/recipe"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
		GetShortLink(c *fiber.Ctx) error
		RedirectShortLink(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{recipeService: recipeService, validator: validator}
}

func boolQuery(c *fiber.Ctx, key string) bool {
	v := c.Query(key)
	return v == "1" || v == "true"
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	viewerID := c.Locals("user_id").(string)
	page, limit := parsePagination(c)

	filter := domain.RecipeFilter{
		AuthorID:      c.Query("author"),
		FavoritedOnly: boolQuery(c, "is_favorited"),
		InCartOnly:    boolQuery(c, "is_in_shopping_cart"),
		Page:          page,
		Limit:         limit,
	}
	for _, slug := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.TagSlugs = append(filter.TagSlugs, string(slug))
	}

	recipes, count, err := h.recipeService.GetRecipes(c.Context(), filter, viewerID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, paginated(recipes, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	viewerID := c.Locals("user_id").(string)

	res, err := h.recipeService.GetRecipeByID(c.Context(), c.Params("id"), viewerID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req domain.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req domain.UpdateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), c.Params("id"), req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedDeleteRecipe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.AddFavorite(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedAddFavorite, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.recipeService.RemoveFavorite(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedRemoveFavorite, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddToCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.AddToCart(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedAddToCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddToCart)
}

func (h *recipeHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.recipeService.RemoveFromCart(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedRemoveFromCart, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	items, err := h.recipeService.GetShoppingList(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.SendString(recipe.RenderShoppingList(items))
}

func (h *recipeHandler) GetShortLink(c *fiber.Ctx) error {
	link, err := h.recipeService.GetShortLink(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetShortLink, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"short-link": link}, fiber.StatusOK, domain.MessageSuccessGetShortLink)
}

func (h *recipeHandler) RedirectShortLink(c *fiber.Ctx) error {
	recipeID, err := h.recipeService.ResolveShortLink(c.Context(), c.Params("hash"))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetShortLink, err)
	}

	return c.Redirect("/recipes/"+recipeID, fiber.StatusFound)
}
