// Package serializers projects persisted entities into viewer-relative
// response shapes. A viewer id of 0 denotes an anonymous request: every
// computed flag (is_subscribed, is_favorited, is_in_shopping_cart) renders
// false for it.
package serializers

import (
	"github.com/anonto42/foodgram/backend/internal/repositories"
)

// Serializer builds response representations using the relation and recipe
// repositories for the computed fields.
type Serializer struct {
	relations repositories.RelationRepository
	recipes   repositories.RecipeRepository
}

// New creates a Serializer
func New(relations repositories.RelationRepository, recipes repositories.RecipeRepository) *Serializer {
	return &Serializer{relations: relations, recipes: recipes}
}
