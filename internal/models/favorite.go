package models

import "time"

// Favorite marks a recipe as favorited by a user
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_recipe_favorite;not null"`
	RecipeID  uint      `json:"recipe_id" gorm:"index;uniqueIndex:idx_user_recipe_favorite;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    Recipe    `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
