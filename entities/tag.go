package entities

import "github.com/google/uuid"

// Tag is admin-managed reference data for recipe categorization.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name  string    `gorm:"size:32;uniqueIndex" json:"name"`
	Slug  string    `gorm:"size:32;uniqueIndex" json:"slug"`
	Color string    `gorm:"size:7" json:"color"`
}
