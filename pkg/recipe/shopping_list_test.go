package recipe

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"foodshare/domain"
)

func TestRenderShoppingList(t *testing.T) {
	items := []domain.ShoppingListItem{
		{Name: "onion", MeasurementUnit: "pcs", TotalAmount: 2},
		{Name: "potato", MeasurementUnit: "g", TotalAmount: 500},
		{Name: "salt", MeasurementUnit: "g", TotalAmount: 15},
	}

	got := RenderShoppingList(items)
	want := "onion (pcs) — 2\npotato (g) — 500\nsalt (g) — 15"
	assert.Equal(t, want, got)
}

func TestRenderShoppingListEmpty(t *testing.T) {
	assert.Equal(t, "", RenderShoppingList(nil))
}

func TestShortLinkHash(t *testing.T) {
	id := uuid.New().String()

	hash := ShortLinkHash(id)
	assert.Len(t, hash, 6)
	assert.Equal(t, hash, ShortLinkHash(id), "hash must be stable for the same recipe")
	assert.NotEqual(t, hash, ShortLinkHash(uuid.New().String()))
	assert.False(t, strings.ContainsAny(hash, "/+"), "hash must be URL safe")
}
