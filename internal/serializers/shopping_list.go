package serializers

import (
	"fmt"
	"strings"

	"github.com/anonto42/foodgram/backend/internal/repositories"
)

// ShoppingListText renders the consolidated shopping list as a plain-text
// document: a header line followed by one "name (unit) - amount" line per
// entry.
func ShoppingListText(items []repositories.ShoppingListItem) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, "Shopping list:")
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s) - %d", item.Name, item.MeasurementUnit, item.TotalAmount))
	}
	return strings.Join(lines, "\n") + "\n"
}
