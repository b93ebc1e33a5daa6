package models

// Tag categorizes recipes. Name, color and slug are all unique.
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;uniqueIndex;not null"`
	Color string `json:"color" gorm:"size:7;uniqueIndex;not null"` // hex, e.g. #49B64E
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex;not null"`
}
