package models

import "time"

// Subscription links a follower to a recipe author.
// A user cannot subscribe to themself.
type Subscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_author;not null"`
	AuthorID  uint      `json:"author_id" gorm:"index;uniqueIndex:idx_user_author;not null"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author    User      `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
