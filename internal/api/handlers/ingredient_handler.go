package handlers

import (
	"github.com/gofiber/fiber/v2"

	"foodshare/domain"
	"foodshare/internal/api/presenters"
	"foodshare/pkg/ingredient"
)

type (
	IngredientHandler interface {
		GetIngredients(c *fiber.Ctx) error
		GetIngredientDetail(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService) IngredientHandler {
	return &ingredientHandler{ingredientService: ingredientService}
}

func (h *ingredientHandler) GetIngredients(c *fiber.Ctx) error {
	ingredients, err := h.ingredientService.SearchIngredients(c.Context(), c.Query("name"))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetIngredients, err)
	}

	return presenters.SuccessResponse(c, ingredients, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *ingredientHandler) GetIngredientDetail(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredientByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetIngredients, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}
