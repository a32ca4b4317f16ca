package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"foodshare/domain"
)

// statusForError maps domain errors onto HTTP status codes. Anything
// unrecognized is treated as a caller-correctable bad request.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthenticationRequired),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrNotRecipeAuthor):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadRequest
	}
}

func parsePagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", strconv.Itoa(domain.DefaultPage)))
	if err != nil || page < 1 {
		page = domain.DefaultPage
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(domain.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = domain.DefaultPageSize
	}

	return page, limit
}

func paginated(items any, page, limit int, count int64) fiber.Map {
	return fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}
}
