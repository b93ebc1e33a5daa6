package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// User is a registered account. Recipes reference it as their author.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Username  string `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName string `json:"first_name" gorm:"size:150;not null"`
	LastName  string `json:"last_name" gorm:"size:150;not null"`
	Password  string `json:"-"` // bcrypt hash, never serialized
}

// CreateUserRequest defines the request body for account registration
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,min=1,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
