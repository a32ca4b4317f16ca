package entities

import "github.com/google/uuid"

// Ingredient is reference data, bulk-imported once from CSV.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name            string    `gorm:"size:128;index" json:"name"`
	MeasurementUnit string    `gorm:"size:64" json:"measurement_unit"`
}
