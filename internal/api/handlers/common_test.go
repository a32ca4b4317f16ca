package handlers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"foodshare/domain"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrAuthenticationRequired, fiber.StatusUnauthorized},
		{domain.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{domain.ErrTokenExpired, fiber.StatusUnauthorized},
		{domain.ErrNotRecipeAuthor, fiber.StatusForbidden},
		{domain.ErrRecipeNotFound, fiber.StatusNotFound},
		{domain.ErrUserNotFound, fiber.StatusNotFound},
		{domain.ErrAlreadyFavorited, fiber.StatusBadRequest},
		{domain.ErrNotFavorited, fiber.StatusBadRequest},
		{domain.ErrSelfSubscription, fiber.StatusBadRequest},
		{domain.ErrDuplicateIngredient, fiber.StatusBadRequest},
		{errors.New("anything else"), fiber.StatusBadRequest},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err), "error: %v", tc.err)
	}
}

func TestPaginated(t *testing.T) {
	m := paginated([]string{"a"}, 2, 6, 13)
	pagination := m["pagination"].(fiber.Map)
	assert.Equal(t, 2, pagination["page"])
	assert.Equal(t, 6, pagination["limit"])
	assert.Equal(t, int64(13), pagination["total"])
	assert.Equal(t, int64(3), pagination["total_pages"])
}
