package models

// Ingredient is immutable reference data: a name and its measurement unit.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;index;not null"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null"`
}
