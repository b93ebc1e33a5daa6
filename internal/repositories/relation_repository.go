package repositories

import (
	"github.com/anonto42/foodgram/backend/internal/apperrors"
	"github.com/anonto42/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// RelationKind identifies one of the three user-relation tables.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
	RelationSubscription RelationKind = "subscription"
)

// relationSpec describes how one relation kind is stored: the model to
// query, a row factory, the column the target id lives in and whether the
// user may reference themself.
type relationSpec struct {
	model        interface{}
	newRow       func(userID, targetID uint) interface{}
	targetColumn string
	noSelf       bool
	label        string
}

var relationSpecs = map[RelationKind]relationSpec{
	RelationFavorite: {
		model:        &models.Favorite{},
		newRow:       func(userID, targetID uint) interface{} { return &models.Favorite{UserID: userID, RecipeID: targetID} },
		targetColumn: "recipe_id",
		label:        "favorite",
	},
	RelationShoppingCart: {
		model:        &models.ShoppingCartItem{},
		newRow:       func(userID, targetID uint) interface{} { return &models.ShoppingCartItem{UserID: userID, RecipeID: targetID} },
		targetColumn: "recipe_id",
		label:        "shopping cart item",
	},
	RelationSubscription: {
		model:        &models.Subscription{},
		newRow:       func(userID, targetID uint) interface{} { return &models.Subscription{UserID: userID, AuthorID: targetID} },
		targetColumn: "author_id",
		noSelf:       true,
		label:        "subscription",
	},
}

// RelationRepository enforces the add/remove contract shared by favorites,
// shopping cart items and subscriptions: a (user, target) pair is unique per
// kind, and a subscription may not reference its own user.
type RelationRepository interface {
	Add(kind RelationKind, userID, targetID uint) error
	Remove(kind RelationKind, userID, targetID uint) error
	Exists(kind RelationKind, userID, targetID uint) (bool, error)
}

// PostgresRelationRepository implements RelationRepository for PostgreSQL
type PostgresRelationRepository struct {
	db *gorm.DB
}

// NewPostgresRelationRepository creates a new PostgresRelationRepository
func NewPostgresRelationRepository(db *gorm.DB) *PostgresRelationRepository {
	return &PostgresRelationRepository{db: db}
}

// Add inserts the relation row. It fails with a conflict when the pair
// already exists and with a validation error on self-subscription.
func (r *PostgresRelationRepository) Add(kind RelationKind, userID, targetID uint) error {
	spec := relationSpecs[kind]
	if spec.noSelf && userID == targetID {
		return apperrors.Validation("cannot subscribe to yourself")
	}
	exists, err := r.Exists(kind, userID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.Conflict(spec.label + " already exists")
	}
	return r.db.Create(spec.newRow(userID, targetID)).Error
}

// Remove deletes the relation row, failing with not-found when it is absent.
func (r *PostgresRelationRepository) Remove(kind RelationKind, userID, targetID uint) error {
	spec := relationSpecs[kind]
	res := r.db.Where("user_id = ? AND "+spec.targetColumn+" = ?", userID, targetID).Delete(spec.model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(spec.label + " not found")
	}
	return nil
}

// Exists reports whether the (user, target) pair exists for the kind.
// A userID of 0 denotes an anonymous viewer and always reports false.
func (r *PostgresRelationRepository) Exists(kind RelationKind, userID, targetID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	spec := relationSpecs[kind]
	var count int64
	err := r.db.Model(spec.model).Where("user_id = ? AND "+spec.targetColumn+" = ?", userID, targetID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
