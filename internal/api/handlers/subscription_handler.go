package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"foodshare/domain"
	"foodshare/internal/api/presenters"
	"foodshare/pkg/subscription"
)

type (
	SubscriptionHandler interface {
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		GetSubscriptions(c *fiber.Ctx) error
	}

	subscriptionHandler struct {
		subscriptionService subscription.SubscriptionService
	}
)

func NewSubscriptionHandler(subscriptionService subscription.SubscriptionService) SubscriptionHandler {
	return &subscriptionHandler{subscriptionService: subscriptionService}
}

func recipesLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit", "0"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func (h *subscriptionHandler) Subscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	authorID := c.Params("id")

	res, err := h.subscriptionService.Subscribe(c.Context(), userID, authorID, recipesLimit(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedSubscribe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *subscriptionHandler) Unsubscribe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	authorID := c.Params("id")

	if err := h.subscriptionService.Unsubscribe(c.Context(), userID, authorID); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUnsubscribe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *subscriptionHandler) GetSubscriptions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := parsePagination(c)

	authors, count, err := h.subscriptionService.GetSubscriptions(c.Context(), userID, page, limit, recipesLimit(c))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetSubscriptions, err)
	}

	return presenters.SuccessResponse(c, paginated(authors, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetSubscriptions)
}
