package recipe

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"foodshare/domain"
)

// RenderShoppingList formats aggregated cart rows as the downloadable
// plain-text document, one "{name} ({unit}) — {total}" line per ingredient.
func RenderShoppingList(items []domain.ShoppingListItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) — %d", item.Name, item.MeasurementUnit, item.TotalAmount))
	}
	return strings.Join(lines, "\n")
}

// ShortLinkHash derives the stable 6-character short-link hash for a recipe id.
func ShortLinkHash(recipeID string) string {
	sum := sha256.Sum256([]byte(recipeID))
	return base64.URLEncoding.EncodeToString(sum[:])[:6]
}
