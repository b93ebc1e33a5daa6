package repositories

import (
	"gorm.io/gorm"
)

// ShoppingListItem is one consolidated entry of a user's shopping list:
// every appearance of the same (name, unit) pair across the cart recipes is
// summed into a single total.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// ShoppingListRepository computes the consolidated shopping list for a user
type ShoppingListRepository interface {
	BuildShoppingList(userID uint) ([]ShoppingListItem, error)
}

// PostgresShoppingListRepository implements ShoppingListRepository for PostgreSQL
type PostgresShoppingListRepository struct {
	db *gorm.DB
}

func NewPostgresShoppingListRepository(db *gorm.DB) *PostgresShoppingListRepository {
	return &PostgresShoppingListRepository{db: db}
}

// BuildShoppingList sums ingredient amounts across every recipe in the
// user's cart, grouped by (name, measurement_unit) and ordered by name.
func (r *PostgresShoppingListRepository) BuildShoppingList(userID uint) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := r.db.Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	return items, err
}
