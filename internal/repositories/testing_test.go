package repositories

import (
	"testing"

	"github.com/anonto42/foodgram/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would get its own empty :memory: database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
		&models.Subscription{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func seedTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// seedRecipe creates a recipe through the repository so join rows and tags
// are attached the same way production writes are.
func seedRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, ingredients []models.RecipeIngredientInput, tagIDs []uint) *models.Recipe {
	t.Helper()
	repo := NewPostgresRecipeRepository(db)
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "test recipe",
		CookingTime: 10,
		Image:       []byte{0x89, 0x50, 0x4e, 0x47},
		ImageMime:   "image/png",
	}
	require.NoError(t, repo.CreateRecipe(recipe, ingredients, tagIDs))
	return recipe
}
