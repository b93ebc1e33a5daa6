package serializers

import (
	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
)

// UserResponse is the viewer-relative representation of a user
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscriptionResponse extends UserResponse with the author's recipes.
// RecipesCount is the author's total recipe count, independent of any
// truncation applied to the Recipes list.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeCompact `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// User renders a user with the viewer-relative is_subscribed flag.
func (s *Serializer) User(user *models.User, viewerID uint) (*UserResponse, error) {
	subscribed, err := s.relations.Exists(repositories.RelationSubscription, viewerID, user.ID)
	if err != nil {
		return nil, err
	}
	return &UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}, nil
}

// Subscription renders an author with an abbreviated recipe list. When
// recipesLimit > 0 the list is truncated to that many newest recipes; the
// count always covers all of the author's recipes.
func (s *Serializer) Subscription(author *models.User, viewerID uint, recipesLimit int) (*SubscriptionResponse, error) {
	user, err := s.User(author, viewerID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipes.GetRecipesByAuthor(author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.recipes.CountByAuthor(author.ID)
	if err != nil {
		return nil, err
	}
	compact := make([]RecipeCompact, len(recipes))
	for i := range recipes {
		compact[i] = CompactRecipe(&recipes[i])
	}
	return &SubscriptionResponse{
		UserResponse: *user,
		Recipes:      compact,
		RecipesCount: count,
	}, nil
}
