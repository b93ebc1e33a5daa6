package repositories

import (
	"errors"
	"fmt"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint // viewer id: only recipes the viewer favorited
	InCartOf    uint // viewer id: only recipes in the viewer's cart
}

// RecipeRepository defines the interface for recipe data operations.
// CreateRecipe and ReplaceRecipe are all-or-nothing: on any validation or
// persistence failure no partial state is left behind.
type RecipeRepository interface {
	CreateRecipe(recipe *models.Recipe, ingredients []models.RecipeIngredientInput, tagIDs []uint) error
	ReplaceRecipe(recipe *models.Recipe, ingredients []models.RecipeIngredientInput, tagIDs []uint) error
	GetRecipeByID(id uint) (*models.Recipe, error)
	GetRecipes(filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)
	GetRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthor(authorID uint) (int64, error)
	DeleteRecipe(id uint) error
}

// PostgresRecipeRepository implements RecipeRepository for PostgreSQL
type PostgresRecipeRepository struct {
	db *gorm.DB
}

// NewPostgresRecipeRepository creates a new PostgresRecipeRepository
func NewPostgresRecipeRepository(db *gorm.DB) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{db: db}
}

// CreateRecipe inserts the recipe row, one join row per ingredient entry and
// the tag set inside a single transaction.
func (r *PostgresRecipeRepository) CreateRecipe(recipe *models.Recipe, ingredients []models.RecipeIngredientInput, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveWritePayload(tx, recipe.CookingTime, ingredients, tagIDs)
		if err != nil {
			return err
		}
		if err := tx.Omit("Ingredients", "Tags").Create(recipe).Error; err != nil {
			return err
		}
		if err := createIngredientRows(tx, recipe.ID, ingredients); err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

// ReplaceRecipe is a full replace, not a merge: prior join rows are deleted,
// the scalar columns are updated (author and pub_date are never touched) and
// the submitted ingredient and tag sets are attached, all in one transaction.
func (r *PostgresRecipeRepository) ReplaceRecipe(recipe *models.Recipe, ingredients []models.RecipeIngredientInput, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveWritePayload(tx, recipe.CookingTime, ingredients, tagIDs)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"image":        recipe.Image,
			"image_mime":   recipe.ImageMime,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := createIngredientRows(tx, recipe.ID, ingredients); err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
}

// resolveWritePayload validates the submitted payload and resolves the tag
// set. Duplicate ingredient ids and out-of-range numbers are validation
// errors; unknown ingredient or tag ids are not-found errors.
func resolveWritePayload(tx *gorm.DB, cookingTime int, ingredients []models.RecipeIngredientInput, tagIDs []uint) ([]models.Tag, error) {
	if cookingTime < 1 {
		return nil, apperrors.Validation("cooking_time must be at least 1")
	}
	if len(ingredients) == 0 {
		return nil, apperrors.Validation("at least one ingredient is required")
	}
	seen := make(map[uint]bool, len(ingredients))
	ingredientIDs := make([]uint, 0, len(ingredients))
	for _, in := range ingredients {
		if in.Amount < 1 {
			return nil, apperrors.Validation(fmt.Sprintf("ingredient %d: amount must be at least 1", in.ID))
		}
		if seen[in.ID] {
			return nil, apperrors.Validation(fmt.Sprintf("ingredient %d appears more than once", in.ID))
		}
		seen[in.ID] = true
		ingredientIDs = append(ingredientIDs, in.ID)
	}

	var ingredientCount int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&ingredientCount).Error; err != nil {
		return nil, err
	}
	if ingredientCount != int64(len(ingredientIDs)) {
		return nil, apperrors.NotFound("one or more ingredients do not exist")
	}

	if len(tagIDs) == 0 {
		return nil, apperrors.Validation("at least one tag is required")
	}
	var tags []models.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, apperrors.NotFound("one or more tags do not exist")
	}
	return tags, nil
}

func createIngredientRows(tx *gorm.DB, recipeID uint, ingredients []models.RecipeIngredientInput) error {
	rows := make([]models.RecipeIngredient, len(ingredients))
	for i, in := range ingredients {
		rows[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: in.ID,
			Amount:       in.Amount,
		}
	}
	return tx.Create(&rows).Error
}

// GetRecipeByID loads the recipe with its author, tags and ingredient rows.
func (r *PostgresRecipeRepository) GetRecipeByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient").First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}

// GetRecipes lists recipes newest-first with the given filters applied.
func (r *PostgresRecipeRepository) GetRecipes(filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	q := r.db.Model(&models.Recipe{})
	if filter.AuthorID != 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagIDs := r.db.Table("tags").Select("id").Where("slug IN ?", filter.TagSlugs)
		q = q.Where("id IN (?)", r.db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN (?)", tagIDs))
	}
	if filter.FavoritedBy != 0 {
		q = q.Where("id IN (?)", r.db.Table("favorites").Select("recipe_id").Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InCartOf != 0 {
		q = q.Where("id IN (?)", r.db.Table("shopping_cart_items").Select("recipe_id").Where("user_id = ?", filter.InCartOf))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := q.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient").
		Order("pub_date DESC").Offset(offset).Limit(limit).Find(&recipes).Error
	return recipes, total, err
}

// GetRecipesByAuthor returns the author's recipes newest-first, truncated to
// limit when limit > 0. Used for the abbreviated list in subscription
// responses.
func (r *PostgresRecipeRepository) GetRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	q := r.db.Where("author_id = ?", authorID).Order("pub_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []models.Recipe
	err := q.Find(&recipes).Error
	return recipes, err
}

func (r *PostgresRecipeRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// DeleteRecipe removes the recipe together with its join rows, tag links,
// favorites and cart items.
func (r *PostgresRecipeRepository) DeleteRecipe(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("recipe not found")
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error
	})
}
