package models

import "time"

// ShoppingCartItem puts a recipe into a user's shopping cart
type ShoppingCartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_recipe_cart;not null"`
	RecipeID  uint      `json:"recipe_id" gorm:"index;uniqueIndex:idx_user_recipe_cart;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
