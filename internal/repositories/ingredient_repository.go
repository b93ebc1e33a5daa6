package repositories

import (
	"errors"

	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// IngredientRepository defines the interface for ingredient lookups
type IngredientRepository interface {
	GetIngredients(namePrefix string) ([]models.Ingredient, error)
	GetIngredientByID(id uint) (*models.Ingredient, error)
}

// PostgresIngredientRepository implements IngredientRepository for PostgreSQL
type PostgresIngredientRepository struct {
	db *gorm.DB
}

func NewPostgresIngredientRepository(db *gorm.DB) *PostgresIngredientRepository {
	return &PostgresIngredientRepository{db: db}
}

// GetIngredients lists ingredients, optionally narrowed by a name prefix.
func (r *PostgresIngredientRepository) GetIngredients(namePrefix string) ([]models.Ingredient, error) {
	q := r.db.Order("name")
	if namePrefix != "" {
		q = q.Where("name LIKE ?", namePrefix+"%")
	}
	var ingredients []models.Ingredient
	err := q.Find(&ingredients).Error
	return ingredients, err
}

func (r *PostgresIngredientRepository) GetIngredientByID(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ingredient not found")
		}
		return nil, err
	}
	return &ingredient, nil
}
