package serializers

import (
	"fmt"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/anonto42/foodgram/backend/internal/repositories"
)

// RecipeIngredientResponse is one ingredient entry of a rendered recipe:
// name and unit come from the Ingredient, amount from the join row.
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full viewer-relative representation of a recipe
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []models.Tag               `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeCompact is the abbreviated recipe shape used inside subscription
// responses
type RecipeCompact struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeImageURL returns the retrievable URL for a recipe's stored image.
func RecipeImageURL(recipeID uint) string {
	return fmt.Sprintf("/media/recipes/%d", recipeID)
}

// CompactRecipe renders the abbreviated recipe shape.
func CompactRecipe(recipe *models.Recipe) RecipeCompact {
	return RecipeCompact{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       RecipeImageURL(recipe.ID),
		CookingTime: recipe.CookingTime,
	}
}

// Recipe renders a recipe with nested tags, author and ingredients plus the
// viewer-relative favorite and cart flags. The recipe must be loaded with
// its Author, Tags and Ingredients.Ingredient associations.
func (s *Serializer) Recipe(recipe *models.Recipe, viewerID uint) (*RecipeResponse, error) {
	author, err := s.User(&recipe.Author, viewerID)
	if err != nil {
		return nil, err
	}
	favorited, err := s.relations.Exists(repositories.RelationFavorite, viewerID, recipe.ID)
	if err != nil {
		return nil, err
	}
	inCart, err := s.relations.Exists(repositories.RelationShoppingCart, viewerID, recipe.ID)
	if err != nil {
		return nil, err
	}

	ingredients := make([]RecipeIngredientResponse, len(recipe.Ingredients))
	for i, row := range recipe.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		}
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return &RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           *author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            RecipeImageURL(recipe.ID),
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}
