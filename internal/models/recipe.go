package models

import "time"

// Recipe is the central entity: scalar fields plus ingredient join rows
// and a many-to-many tag set.
type Recipe struct {
	ID          uint               `json:"id" gorm:"primaryKey"`
	AuthorID    uint               `json:"author_id" gorm:"index;not null"`
	Author      User               `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string             `json:"name" gorm:"size:200;not null"`
	Image       []byte             `json:"-"`
	ImageMime   string             `json:"-" gorm:"size:64"`
	Text        string             `json:"text" gorm:"size:1000;not null"`
	CookingTime int                `json:"cooking_time" gorm:"not null"` // minutes, >= 1
	PubDate     time.Time          `json:"pub_date" gorm:"autoCreateTime;index"`
	Ingredients []RecipeIngredient `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"-" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
}

// RecipeIngredient joins a recipe to an ingredient with a quantity.
// A recipe cannot list the same ingredient twice.
type RecipeIngredient struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	RecipeID     uint       `json:"recipe_id" gorm:"index;uniqueIndex:idx_recipe_ingredient;not null"`
	IngredientID uint       `json:"ingredient_id" gorm:"uniqueIndex:idx_recipe_ingredient;not null"`
	Ingredient   Ingredient `json:"-" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int        `json:"amount" gorm:"not null"` // >= 1
}

// RecipeIngredientInput is one {id, amount} entry of a recipe write payload
type RecipeIngredientInput struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"required,min=1"`
}

// WriteRecipeRequest defines the request body for creating or replacing a
// recipe. Replace is a full replace: omitted ingredients and tags are dropped.
type WriteRecipeRequest struct {
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint                  `json:"tags" validate:"required,min=1"`
	Image       string                  `json:"image" validate:"required"` // base64 data URI
	Name        string                  `json:"name" validate:"required,max=200"`
	Text        string                  `json:"text" validate:"required,max=1000"`
	CookingTime int                     `json:"cooking_time" validate:"required,min=1"`
}
